package version

// Version is the current release of the stands-ims CLI & server.
const Version = "0.1.0"
