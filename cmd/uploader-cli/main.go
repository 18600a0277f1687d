// Command uploader-cli drives the uploader's sign-in flow from a terminal, the
// same way a browser tab does: it initialises a session, signs in, follows the
// route guard and reports where it landed.
package main

import (
	"context"
	"os"

	"github.com/orc-hfg/uploader/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	root := NewRootCmd(Deps{
		Config:   cfg,
		Prompter: PromptUI{},
		Logger:   logger,
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}
