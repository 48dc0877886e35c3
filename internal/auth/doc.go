// Package auth implements the local StressBand accounts.
//
// Accounts live in a storage.Store under two keys: sbqvt_users holds the
// JSON list of users and sbqvt_current_user holds the e-mail of the user
// who is signed in. When no user list has been saved yet, two demonstration
// accounts are available:
//
//	patient@example.com / patient123  (role patient)
//	pro@example.com     / pro123      (role pro)
//
// Passwords are kept as bcrypt hashes. There is no lockout, session expiry
// or rate limiting: the accounts only select which dashboard a user sees.
package auth
