package log

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/buildshaders/helpers"
)

// messageWidth is the column at which fields start, prefix included.
const messageWidth = 50

type levelStyle struct {
	color  string
	prefix string
}

var levelStyles = map[logrus.Level]levelStyle{
	logrus.DebugLevel: {color: helpers.ANSI_BOLD_WHITE},
	logrus.WarnLevel:  {color: helpers.ANSI_YELLOW, prefix: "WARNING: "},
	logrus.ErrorLevel: {color: helpers.ANSI_BOLD_RED, prefix: "ERROR: "},
	logrus.FatalLevel: {color: helpers.ANSI_BOLD_RED, prefix: "FATAL: "},
	logrus.PanicLevel: {color: helpers.ANSI_BOLD_RED, prefix: "PANIC: "},
}

// RunnerTextFormatter prints a padded message followed by key=value fields,
// coloured by level.
type RunnerTextFormatter struct {
	// Force disabling colors.
	DisableColors bool

	// Fields are sorted by default for a consistent output.
	DisableSorting bool
}

func (f *RunnerTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)
	f.printColored(b, entry)
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func (f *RunnerTextFormatter) printColored(b *bytes.Buffer, entry *logrus.Entry) {
	levelColor, resetColor, levelPrefix := f.getColorsAndPrefix(entry)
	indentLength := messageWidth - len(levelPrefix)

	fmt.Fprintf(b, "%s%s%-*s%s ", levelColor, levelPrefix, indentLength, entry.Message, resetColor)
	for _, k := range f.prepareKeys(entry) {
		fmt.Fprintf(b, " %s%s%s=%v", levelColor, k, resetColor, entry.Data[k])
	}
}

func (f *RunnerTextFormatter) getColorsAndPrefix(entry *logrus.Entry) (string, string, string) {
	style := levelStyles[entry.Level]

	if f.DisableColors {
		return "", "", style.prefix
	}

	return style.color, helpers.ANSI_RESET, style.prefix
}

func (f *RunnerTextFormatter) prepareKeys(entry *logrus.Entry) []string {
	keys := lo.Keys(entry.Data)

	if !f.DisableSorting {
		slices.Sort(keys)
	}

	return keys
}
