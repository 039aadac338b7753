// Package scheduler holds one-shot alert timers keyed by chat. Each chat
// has at most one pending alert; rescheduling replaces it, and firing is
// at-most-once per registration.
package scheduler
