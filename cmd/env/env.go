package env

// Prefix is the prefix for all bot environment variables
const Prefix = "P2PBOT"
