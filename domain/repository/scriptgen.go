package repository

import (
	"context"

	"clipflow/domain/dto"
)

// IScriptGenerator is the text-in/text-out contract of the AI gateway used
// for script generation and adjustment.
type IScriptGenerator interface {
	Complete(ctx context.Context, prompt dto.ScriptPrompt) (string, error)
}
