package banner

import (
	"fmt"

	"convodb/pkg/config"
)

const banner = `
 ██████╗ ██████╗ ███╗   ██╗██╗   ██╗ ██████╗ ██████╗ ██████╗
██╔════╝██╔═══██╗████╗  ██║██║   ██║██╔═══██╗██╔══██╗██╔══██╗
██║     ██║   ██║██╔██╗ ██║██║   ██║██║   ██║██║  ██║██████╔╝
██║     ██║   ██║██║╚██╗██║╚██╗ ██╔╝██║   ██║██║  ██║██╔══██╗
╚██████╗╚██████╔╝██║ ╚████║ ╚████╔╝ ╚██████╔╝██████╔╝██████╔╝
 ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝  ╚═══╝   ╚═════╝ ╚═════╝ ╚═════╝
`

// PrintWithEff prints the banner and startup info derived from the
// effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	dbPath := eff.DBPath
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/auth/signup  - Create an account (JSON: email, password)")
	fmt.Println("POST /v1/auth/login   - Sign in and receive a session token")
	fmt.Println("GET  /v1/users?q=sub  - Search registered users")
	fmt.Println("POST /v1/conversations/direct - Start a direct conversation")
	fmt.Println("POST /v1/conversations/{id}/messages - Append a message")
	fmt.Println("GET  /v1/events       - WebSocket change feed")

	fmt.Println("\n== Production? ================================================")
	fmt.Println("Set a proper storage path (--db)")
	fmt.Println("Set identity.token_secret (or CONVODB_TOKEN_SECRET)")
}
