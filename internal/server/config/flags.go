package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-m string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      registration token validity, hours
//	-l int      login token validity, hours
//	-k int      bcrypt cost
//	-o string   comma-separated CORS origins
//	-r string   Redis address for auth throttling
//	-x string   comma-separated trusted proxy IPs or CIDRs
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Duration flags are accepted as integers in hours and converted to
// time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-t", "-l", "-k", "-o", "-r", "-x", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve HTTP")
	fs.StringVar(&config.EndpointAddrGRPC, "m", config.EndpointAddrGRPC, "address and port to serve gRPC health")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	registerTokenValidity := fs.Int("t", int(config.RegisterTokenValidityDuration.Hours()), "register_token_validity_duration (in hours)")
	loginTokenValidity := fs.Int("l", int(config.LoginTokenValidityDuration.Hours()), "login_token_validity_duration (in hours)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	proxies := fs.String("x", strings.Join(config.TrustedProxies, ","), "comma-separated trusted proxies")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RegisterTokenValidityDuration = time.Duration(*registerTokenValidity) * time.Hour
	config.LoginTokenValidityDuration = time.Duration(*loginTokenValidity) * time.Hour
	config.CORSOrigins = splitList(*origins)
	config.TrustedProxies = splitList(*proxies)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
