// Package main provides the entry point for the attendance administration
// application. It runs a web service using the Fiber framework through which
// employees file leave, on-duty and time-off requests and managers decide
// them according to their role's capability scopes. The application uses
// gorm for data persistence and seeds a default role hierarchy on first run.
package main
