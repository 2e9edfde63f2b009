package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard/core/cmd/api/commands"
)

// @title TaskBoard API
// @version 1.0
// @description Collaborative task and board management backend

// @contact.name TaskBoard Support
// @contact.url https://github.com/taskboard/core

// @license.name MIT
// @license.url https://github.com/taskboard/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "TaskBoard API Server",
		Long:  `TaskBoard is a collaborative task management backend with shared boards, membership roles and email invitations.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
