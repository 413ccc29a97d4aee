package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"convodb/pkg/logger"
	"convodb/pkg/store"
)

// inspect dumps raw keys from a convodb pebble store. Handy when a
// migration or snapshot looks wrong and you need to see what is
// actually on disk.
func main() {
	var (
		path   string
		prefix string
		values bool
	)
	flag.StringVar(&path, "db", "", "path to the pebble store directory")
	flag.StringVar(&prefix, "prefix", "", "only show keys with this prefix (e.g. conv:, account:, user:)")
	flag.BoolVar(&values, "values", false, "print values as well as keys")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "--db required")
		os.Exit(2)
	}

	logger.Init()
	if err := store.Open(path); err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	keys, err := store.ListKeys(prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list: %v\n", err)
		os.Exit(1)
	}
	for _, k := range keys {
		if !values {
			fmt.Println(k)
			continue
		}
		v, err := store.GetKey(k)
		if err != nil {
			fmt.Printf("%s\t<error: %v>\n", k, err)
			continue
		}
		if store.LikelyJSON(v) {
			var buf bytes.Buffer
			if json.Compact(&buf, v) == nil {
				v = buf.Bytes()
			}
		}
		fmt.Printf("%s\t%s\n", k, v)
	}
	fmt.Fprintf(os.Stderr, "%d keys\n", len(keys))
}
