package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/blob-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("blob-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "scan":
			if err := runScan(os.Args[2:], os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "scan: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("BLOB_MCP_LOG_LEVEL") == "debug" {
		log.Printf("Blob MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("blob-tools-mcp - MCP server for single-pass blob labeling")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  blob-tools-mcp [options]")
	fmt.Println("  blob-tools-mcp scan [-4] [-invert] <image> [threshold] [out.png]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Scan:")
	fmt.Println("  Prints one line per blob: its pixel count and its pixels sorted by x, then y.")
	fmt.Println("  Pixels brighter than threshold (default 170) are foreground. Binary PBM/PGM")
	fmt.Println("  files are streamed row by row; other formats are decoded first and may be")
	fmt.Println("  annotated with blob bounding boxes into out.png.")
	fmt.Println("  -4         Use 4-connectivity instead of 8")
	fmt.Println("  -invert    Treat dark pixels as foreground")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BLOB_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("Without a subcommand the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
