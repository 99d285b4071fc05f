// Command judge-run submits one program to the judge and prints its verdict.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gitlab.com/judgerunner.net/internal/adapter/judge0"
	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/domain"
	logger2 "gitlab.com/judgerunner.net/internal/global/logger"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

const defaultSource = `print("Hello from Python!")`

func main() {
	env := flag.String("env", "", "load <env>.env before reading the environment")
	lang := flag.Int("lang", domain.LanguagePython3, "judge language id")
	code := flag.String("code", defaultSource, "source code to run")
	file := flag.String("file", "", "read the source code from this file instead of -code")
	timeout := flag.Duration("timeout", 0, "give up after this long (0 waits for the judge)")
	flag.Parse()

	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()

	if *env != "" {
		if err := godotenv.Load(*env + ".env"); err != nil {
			logger.Error("Error loading env file", "env", *env, "error", err)
			os.Exit(1)
		}
	}

	source := *code
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			logger.Error("Failed to read source file", "file", *file, "error", err)
			os.Exit(1)
		}
		source = string(b)
	}

	client, err := judge0.NewClient(config.NewJudge0Config(), logger)
	if err != nil {
		logger.Error("Invalid judge configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := client.Submit(ctx, *lang, source)
	if err != nil {
		var remote *errs.RemoteServiceError
		if errors.As(err, &remote) {
			logger.Error("Judge rejected the submission", "status", remote.StatusCode, "body", string(remote.Body))
		} else {
			logger.Error("Error executing code", "error", err)
		}
		os.Exit(1)
	}
	logger.Debug("Submission finished", "elapsed", time.Since(start))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("Failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
