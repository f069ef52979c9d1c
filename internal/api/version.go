package api

// Version is set from the main package at startup.
var Version = "dev"
