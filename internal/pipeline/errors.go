package pipeline

import (
	"errors"
	"fmt"
)

// Stages of report composition, used as the stage label on error metrics.
const (
	StageIPLookup  = "ip_lookup"
	StageResolve   = "resolve"
	StageFetch     = "fetch"
	StageTransform = "transform"
	StageRender    = "render"
)

// StageError records which stage of Process failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", stageDescription(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageDescription(stage string) string {
	switch stage {
	case StageIPLookup:
		return "discover public ip"
	case StageResolve:
		return "resolve location"
	case StageFetch:
		return "fetch forecast"
	case StageRender:
		return "render charts"
	default:
		return "analyze forecast"
	}
}

// StageOf returns the failed stage, or "" if err did not come from Process.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
