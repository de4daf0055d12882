// Package files stores downloaded binaries on the local file system.
//
// RemoteFetcher backs registry mode: it downloads a binary into the data
// directory and registers it as a File node. StaticWriter backs static mode:
// it writes binaries below the public static root for a site build to copy.
package files
