package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"calbot/internal"
	"calbot/internal/ai"
	"calbot/internal/initialization"
	"calbot/internal/logger"
)

func main() {
	cfg, err := initialization.Initialize()
	if err != nil {
		logger.Errorf("Initialization error: %v", err)
		os.Exit(1)
	}

	defer func() {
		logger.CloseLogFile()
	}()

	// Create a cancellable context to manage shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		logger.Infof("Shutdown signal received, exiting...")
		cancel()
	}()

	logger.Successf("calbot %s ready (model: %s, event type: %d)",
		internal.BOT_VERSION, cfg.AI.Model, cfg.Calcom.EventTypeID)
	fmt.Println("Ask me to schedule an event or list your scheduled events. Type /quit to exit.")

	// Read user input on a channel so shutdown signals interrupt the prompt
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	prompt := logger.GetColorFunc("green")
	turnTimeout := time.Duration(cfg.AI.APITimeout) * time.Second

	for {
		fmt.Print(prompt("You: "))

		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return
			}

			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if input == "/quit" || input == "/exit" {
				return
			}

			runTurn(ctx, input, turnTimeout)
		}
	}
}

func runTurn(ctx context.Context, input string, timeout time.Duration) {
	turnCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conv := ai.NewConversation(func(state ai.State, message string) {
		logger.Statusf("%s", message)
	})

	reply, err := conv.RunTurn(turnCtx, input)
	if err != nil {
		logger.Errorf("Conversation error: %v", err)
		fmt.Println("Sorry, I encountered an error processing your request.")
		return
	}

	fmt.Println("Assistant: " + reply)
}
