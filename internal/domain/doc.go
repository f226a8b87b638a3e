// Package domain holds the core entities of WellnessFlow and the interfaces
// the application layer depends on. It has no dependencies on transport or
// storage packages; adapters implement these interfaces.
package domain
