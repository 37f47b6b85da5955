// Package sheet defines the capability surface skybook needs from a remote
// spreadsheet document, plus an in-memory implementation of it.
//
// The sync engine never talks to a spreadsheet API directly. Everything it
// does to a member's logbook goes through the Document interface: range
// reads, batch writes, row insertion, and capacity growth. That keeps the
// engine testable against MemoryDocument and keeps transport concerns
// (auth, quotas, retries) out of the core.
//
// Addresses use A1 notation ("B1", "A3") with 1-based rows and columns,
// matching what the hosted spreadsheet APIs speak.
package sheet
