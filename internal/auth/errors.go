package auth

import "errors"

var (
	// ErrMissingCredentials is returned when the e-mail or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrEmailTaken is returned by SignUp when the e-mail is already registered.
	ErrEmailTaken = errors.New("an account already exists with this email")

	// ErrInvalidCredentials is returned by SignIn for an unknown e-mail or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole is returned when a role is neither patient nor pro.
	ErrInvalidRole = errors.New("invalid role")
)

// Message returns the French message shown to users for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "Merci de renseigner un email et un mot de passe."
	case errors.Is(err, ErrEmailTaken):
		return "Un compte existe déjà avec cet email."
	case errors.Is(err, ErrInvalidCredentials):
		return "Identifiants incorrects."
	case errors.Is(err, ErrInvalidRole):
		return "Profil inconnu : choisissez patient ou pro."
	default:
		return "Une erreur est survenue."
	}
}
