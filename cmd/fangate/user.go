package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkadyv/fangate/internal/config"
	"github.com/arkadyv/fangate/internal/db"
	"github.com/arkadyv/fangate/internal/models"
	"github.com/arkadyv/fangate/internal/repository"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user and print its API key",
	RunE:  runUserCreate,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  runUserList,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [email]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

var (
	userEmail string
	userName  string
)

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "User email")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "User name")
	userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)

	userCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/fangate/config.yaml", "Path to configuration file")
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	users := repository.NewUserRepository(database.DB)
	u := &models.User{Email: userEmail, Name: userName}
	if err := users.Create(u); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("user with email %s already exists", userEmail)
		}
		return err
	}

	fmt.Printf("User %s created successfully\n", userEmail)
	fmt.Printf("API key: %s\n", u.APIKey)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	rows, err := database.Query("SELECT id, email, name, created_at FROM users ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	fmt.Printf("%-36s  %-30s  %-20s  %s\n", "ID", "Email", "Name", "Created")
	fmt.Println(strings.Repeat("-", 100))

	for rows.Next() {
		var id, email, createdAt string
		var name *string
		if err := rows.Scan(&id, &email, &name, &createdAt); err != nil {
			return err
		}
		nameStr := ""
		if name != nil {
			nameStr = *name
		}
		fmt.Printf("%-36s  %-30s  %-20s  %s\n", id, email, nameStr, createdAt)
	}

	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	email := args[0]

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Printf("Are you sure you want to delete user %s? [y/N]: ", email)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response != "y" && response != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	result, err := database.Exec("DELETE FROM users WHERE email = ?", email)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user %s not found", email)
	}

	fmt.Printf("User %s deleted\n", email)
	return nil
}
