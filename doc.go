// Package signup implements a two-phase, stateless account registration
// protocol. Phase one claims an email/username pair and hands the caller a
// signed, expiring claim token; phase two exchanges that token plus a
// credential for a durable account.
//
// Protocol shape:
//   - The server keeps no record of issued claim tokens. Validity is fully
//     determined by the HMAC signature and the embedded expiry, so any node
//     holding the signing secret can finalize a registration.
//   - When the claimed email already maps to a Profile, a second token
//     carrying the profile UUID is delivered out-of-band to that mailbox.
//     Only the mailbox owner can link the new account to the existing
//     profile; the token returned to the caller never carries that claim.
//   - Finalization trusts the token, not the request body: the email and
//     the optional profile UUID always come from the decoded claim set.
//
// Command handlers (InitializeRegistrationHandler, FinalizeRegistrationHandler)
// orchestrate the phases over a RepositoryManager backed by Bun and report
// every failed precondition together in a fixed-field response, never as a
// bare error code.
package signup
