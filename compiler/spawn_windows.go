package compiler

func isTransientStartError(err error) bool {
	return false
}
