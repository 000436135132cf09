package config

import (
	"flag"
	"os"
	"time"

	"github.com/vtumanov/filevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-p string   Redis password
//	-t int      session TTL, hours
//	-f string   blob storage root directory
//	-k string   blob backend ("disk" or "s3")
//	-n int      thumbnail worker concurrency
//	-u string   S3 root user
//	-w string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-p", "-t", "-f", "-k", "-n", "-u", "-w", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "p", config.RedisPassword, "redis password")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")

	fs.StringVar(&config.StorageRoot, "f", config.StorageRoot, "blob storage root directory")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (disk or s3)")
	fs.IntVar(&config.WorkerConcurrency, "n", config.WorkerConcurrency, "thumbnail worker concurrency")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "w", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
