// CLI tool to create a user with a bcrypt-hashed password and the default
// nutrition profile.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-go-api/internal/nutrition"
)

type newUser struct {
	Username string
	Email    string
	Password string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	u, err := prompt(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	userID, authToken, err := create(ctx, conn, u)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}

// prompt reads username, email and password, one per line.
func prompt(in io.Reader, out io.Writer) (newUser, error) {
	reader := bufio.NewReader(in)
	read := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	u := newUser{Username: read("Username"), Email: read("Email"), Password: read("Password")}
	switch {
	case u.Username == "":
		return u, errors.New("username is required")
	case !strings.Contains(u.Email, "@"):
		return u, errors.New("email must contain @")
	case len(u.Password) < 8:
		return u, errors.New("password must be at least 8 characters")
	}
	return u, nil
}

// create inserts the user and a default nutrition profile in one transaction.
func create(ctx context.Context, conn *pgx.Conn, u newUser) (int, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("hashing password: %w", err)
	}
	authToken := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		return 0, "", fmt.Errorf("creating user: %w", err)
	}

	p := nutrition.DefaultProfile()
	_, err = tx.Exec(ctx,
		`INSERT INTO nutrition_profiles
			(user_id, age, sex, height_cm, weight_kg, activity_level, goal, diet_type, meals_per_day)
		 VALUES (@userID, @age, @sex, @heightCm, @weightKg, @activityLevel, @goal, @dietType, @mealsPerDay)`,
		pgx.NamedArgs{
			"userID": userID, "age": p.Age, "sex": string(p.Sex),
			"heightCm": p.HeightCm, "weightKg": p.WeightKg,
			"activityLevel": string(p.ActivityLevel), "goal": string(p.Goal),
			"dietType": string(p.DietType), "mealsPerDay": p.MealsPerDay,
		})
	if err != nil {
		return 0, "", fmt.Errorf("creating nutrition profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", fmt.Errorf("committing: %w", err)
	}
	return userID, authToken, nil
}
