// Package storage provides persistent storage for the Eden Timer bot.
// It uses BadgerDB as the embedded database; the only durable value is the
// game-clock offset.
package storage
