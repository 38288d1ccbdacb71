// Package mail sends transactional email. Use cases depend on the Mail
// interface; SMTP is the production implementation.
package mail
