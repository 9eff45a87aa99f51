package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vversio/cinegrid/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	initConfig := flag.Bool("init", false, "Write a new config with a generated admin key and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cinegridd %s\n", version)
		os.Exit(0)
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.DefaultPath()
		}
		key, err := initConfigFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		fmt.Printf("admin key: %s (use with cinegrid --api-key or CINEGRID_API_KEY)\n", key)
		os.Exit(0)
	}

	if *configPath == "" {
		p, err := config.Discover()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		*configPath = p
	}

	if err := runServer(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// initConfigFile writes a fresh config with a generated admin key and the
// database under the XDG data directory. It returns the key.
func initConfigFile(path string) (string, error) {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	err := config.WriteDefault(path, config.Defaults{
		DataDir:  config.DefaultDataDir(),
		AdminKey: key,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
