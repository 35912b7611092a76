// Package tui walks the trip survey in a terminal using survey/v2 prompts.
// Every answer is written through the engine immediately, so an aborted
// session resumes where it stopped. Tests swap the prompt driver for a
// scripted one.
package tui
