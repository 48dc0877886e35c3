// Package log provides the StressBand loggers, built on log/slog with a
// handler that sanitizes sensitive attributes before they are written.
//
// The SecureHandler masks:
//   - credentials and HTTP secrets (password, token, cookie, authorization)
//   - bcrypt hashes, bearer tokens and JWTs wherever they appear as values
//   - patient identifiers (dossier number, birth date)
//
// E-mail addresses are partially masked: "patient@example.com" is logged as
// "pa***@example.com", which keeps log lines correlatable without exposing
// the full address.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("signed in", "email", "pro@example.com", "password", "pro123")
//	// level=INFO msg="signed in" email=pr***@example.com password=***REDACTED***
package log
