// Package chatsync holds the conversation state core of a single-user chat
// client: the transcript of the active conversation, the reconciler that
// folds streamed reply snapshots into it, the reply sanitizer and prompt
// validation.
//
// Archiving lives in package archive, orchestration in package session.
package chatsync
