// CRON expression parsing: accept both 5-field (standard) and 6-field
// (with seconds) grammars, auto-detected by whitespace-separated token
// count, using robfig/cron/v3's multi-field parser.

package taskforge_internal

import (
	"strings"

	"github.com/robfig/cron/v3"
)

var sixFieldParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

func ParseCronExpression(expr string) (cron.Schedule, error) {
	switch len(strings.Fields(expr)) {
	case 5:
		schedule, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, Errorf(KindOutOfRange, "invalid cron expression %q: %v", expr, err)
		}
		return schedule, nil
	case 6:
		schedule, err := sixFieldParser.Parse(expr)
		if err != nil {
			return nil, Errorf(KindOutOfRange, "invalid cron expression %q: %v", expr, err)
		}
		return schedule, nil
	default:
		return nil, Errorf(KindOutOfRange, "cron expression %q must have 5 or 6 fields", expr)
	}
}
