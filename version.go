package snapconf

// Version is the snapconf release version.
const Version = "0.1.0"
