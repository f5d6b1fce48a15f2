// Safe logging: masks personal and financial data in production logs.
package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// IsProduction controls masking. In production, amounts and
	// emails never reach the logs in clear.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountRegex = regexp.MustCompile(`\b\d+[.,]\d{2}\b`)
)

// MaskString masks emails and money-looking values in a message.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = amountRegex.ReplaceAllString(result, "***")
	return result
}

// MaskAmount masks a monetary amount.
func MaskAmount(amount decimal.Decimal) string {
	if IsProduction {
		return "***"
	}
	return amount.StringFixed(2)
}

// MaskEmail masks an email address.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// MaskUsername keeps the first two characters of a username.
func MaskUsername(username string) string {
	if !IsProduction {
		return username
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}

// LogAuthAction logs a register/login outcome without leaking which
// part of the credentials failed.
func LogAuthAction(action string, username string, success bool) {
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	log.Printf("[Auth] %s - User: %s Status: %s", action, MaskUsername(username), status)
}

// LogEntityAction logs a mutation on an owned entity.
func LogEntityAction(entity string, action string, id int64, userID int64) {
	log.Printf("[%s] %s - ID: %d User: %d", entity, action, id, userID)
}

// LogAPIRequest logs one handled request with its correlation id.
func LogAPIRequest(requestID string, method string, path string, statusCode int, duration string) {
	log.Printf("[API] %s %s - Status: %d Duration: %s ReqID: %s",
		method, MaskString(path), statusCode, duration, requestID)
}
