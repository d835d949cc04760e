package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/gitlab-org/buildshaders/common"
)

// DeriveJob computes the output location of source. It only inspects paths.
//
// In sibling mode the output sits next to the source. In bin-root mode the
// output goes below outputRoot, mirroring the directory of source relative to
// root.
func DeriveJob(mode common.LayoutMode, root, outputRoot, source string) (common.ShaderJob, error) {
	var output string

	switch mode {
	case common.LayoutSibling:
		output = source + common.CompiledSuffix
	case common.LayoutBinRoot:
		relDir, err := filepath.Rel(root, filepath.Dir(source))
		if err != nil || relDir == ".." || strings.HasPrefix(relDir, ".."+string(filepath.Separator)) {
			return common.ShaderJob{}, fmt.Errorf("source %s is outside of root %s", source, root)
		}

		output = filepath.Join(outputRoot, relDir, filepath.Base(source)+common.CompiledSuffix)
	default:
		return common.ShaderJob{}, fmt.Errorf("unknown layout mode %q", mode)
	}

	return common.ShaderJob{
		SourcePath: source,
		OutputPath: output,
		OutputDir:  filepath.Dir(output),
	}, nil
}
