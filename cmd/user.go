package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/repository"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

// Users are never created through the panel itself; this command is the
// provisioning path.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage panel users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username> <email> <name> <password>",
	Short: "Create a panel user",
	Args:  cobra.ExactArgs(4),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		username, email, name, password := args[0], args[1], args[2], args[3]
		if err := cfg.Password.Validate(password); err != nil {
			return err
		}

		db, err := sql.Open("mysql", cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		userRepo := repository.NewUserRepository(db)
		ctx := context.Background()

		if existing, err := userRepo.FindByEmail(ctx, email); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("a user with email %q already exists", email)
		}
		if existing, err := userRepo.FindByUsername(ctx, username); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("a user with username %q already exists", username)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now()
		user := &entity.User{
			Username:     username,
			Email:        email,
			Name:         name,
			PasswordHash: string(hashedPassword),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}

		fmt.Printf("user_id: %d\n", user.ID)
		fmt.Printf("username: %s\n", user.Username)
		fmt.Printf("email: %s\n", user.Email)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
