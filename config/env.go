package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Credentials are the API secrets, supplied via the environment (or a
// local .env file) and never written to the config file.
type Credentials struct {
	Token     string
	AccountID string
}

// LoadCredentials reads OANDA credentials from the environment, loading a
// .env file first if one exists. The account ID from the environment wins
// over the config file's, so one config can drive several accounts.
func LoadCredentials(fileAccountID string) (Credentials, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	creds := Credentials{
		Token:     os.Getenv("OANDA_API_KEY"),
		AccountID: os.Getenv("OANDA_ACCOUNT_ID"),
	}
	if creds.AccountID == "" {
		creds.AccountID = fileAccountID
	}

	if creds.Token == "" {
		return Credentials{}, fmt.Errorf("OANDA_API_KEY is not set")
	}
	if creds.AccountID == "" {
		return Credentials{}, fmt.Errorf("no account id: set OANDA_ACCOUNT_ID or oanda.account_id")
	}
	return creds, nil
}
