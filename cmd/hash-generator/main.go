// Command hash-generator prints bcrypt hashes for seeding users directly
// into the database.
//
// Usage:
//
//	hash-generator [-cost N] password...
//
// With no arguments, passwords are read one per line from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		var err error
		passwords, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading passwords: %v\n", err)
			os.Exit(1)
		}
	}

	if err := generate(os.Stdout, os.Stderr, *cost, passwords); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// generate writes one "password: hash" pair per password to out. Passwords
// that signup would reject are still hashed, with a warning on warn.
func generate(out, warn io.Writer, cost int, passwords []string) error {
	hasher, err := auth.NewBcryptHasher(cost)
	if err != nil {
		return err
	}

	for _, password := range passwords {
		if !domain.IsValidPassword(password) {
			fmt.Fprintf(warn, "Warning: %q would be rejected at signup\n", password)
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("generating hash for %q: %w", password, err)
		}
		fmt.Fprintf(out, "Password: %s\nHash: %s\n\n", password, hash)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
