package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-dither/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// logLevelEnv selects debug logging when set to "debug".
const logLevelEnv = "IMAGE_DITHER_LOG_LEVEL"

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func debugEnabled() bool {
	return os.Getenv(logLevelEnv) == "debug"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "image-dither",
		Short: "Error diffusion dithering as a CLI and MCP server",
		Long: `image-dither - error diffusion dithering for images

With no subcommand the MCP server runs over stdin/stdout. Configure it in
your MCP client (e.g., Claude Desktop).

Environment variables:
  ` + logLevelEnv + `=debug    Enable debug logging`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer()
		},
	}
	root.SetVersionTemplate(versionText())

	root.AddCommand(
		newServeCmd(),
		newDitherCmd(),
		newBatchCmd(),
		newKernelsCmd(),
		newVersionCmd(),
	)
	return root
}

func versionText() string {
	return fmt.Sprintf("image-dither %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	srv := server.New()
	if debugEnabled() {
		log.Printf("Image Dither MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		srv.SetDebug(true)
	}
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
