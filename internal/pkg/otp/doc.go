// Package otp generates the numeric one-time codes sent to vendors by email.
//
// Codes are drawn uniformly from crypto/rand; formatting (fixed width, leading
// zeros kept) follows github.com/pquerna/otp so the code length is expressed
// with the same Digits type the rest of the ecosystem uses.
package otp
