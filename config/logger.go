package config

import (
	"os"

	"go.uber.org/zap"
)

// Log is the process-wide structured logger. InitLogger must run before
// anything else touches it.
var Log *zap.Logger

func InitLogger() {
	var err error
	if os.Getenv("APP_ENV") == "production" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger init: " + err.Error())
	}
}
