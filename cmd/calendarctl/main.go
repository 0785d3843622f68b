package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/holidaycal/internal/calendarctl"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	os.Exit(calendarctl.Main(context.Background()))
}
