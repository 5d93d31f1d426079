package hoist

// Version is the build version, set with
// -ldflags "-X github.com/aretw0/hoist.Version=v1.2.3".
var Version = "dev"
