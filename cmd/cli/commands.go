package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yourusername/savevid-go/internal/client"
	"github.com/yourusername/savevid-go/internal/controller"
	"github.com/yourusername/savevid-go/internal/domain"
	"github.com/yourusername/savevid-go/internal/tui"
)

// backendFunc adapts a function to controller.Backend
type backendFunc func(ctx context.Context, url string) (*domain.DownloadResponse, error)

func (f backendFunc) Download(ctx context.Context, url string) (*domain.DownloadResponse, error) {
	return f(ctx, url)
}

var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Download a video and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()
		platform, _ := cmd.Flags().GetString("platform")
		saveDir, _ := cmd.Flags().GetString("save")
		return runGet(cmd.Context(), cmd.OutOrStdout(), client.New(serverURL), args[0], domain.Platform(platform), saveDir)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive download form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()
		c := client.New(serverURL)
		model := tui.NewModel(controller.New(c, nil), c.BaseURL())
		_, err := tea.NewProgram(model).Run()
		return err
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [file-id]",
	Short: "Fetch a downloaded file by its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()
		outputDir, _ := cmd.Flags().GetString("output")
		return runFetch(cmd.Context(), cmd.OutOrStdout(), client.New(serverURL), args[0], outputDir)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServer()
		return runStatus(cmd.Context(), cmd.OutOrStdout(), client.New(serverURL))
	},
}

func init() {
	getCmd.Flags().StringP("platform", "p", "", "Force platform (tiktok, instagram, facebook, youtube)")
	getCmd.Flags().StringP("save", "s", "", "Fetch the file into this directory after a successful download")
	fetchCmd.Flags().StringP("output", "o", ".", "Output directory")
}

// runGet submits url once through the form controller and prints the result
func runGet(ctx context.Context, out io.Writer, c *client.Client, url string, platform domain.Platform, saveDir string) error {
	if platform != "" && !domain.ValidatePlatform(platform) {
		return fmt.Errorf("unknown platform: %s", platform)
	}

	backend := backendFunc(func(ctx context.Context, url string) (*domain.DownloadResponse, error) {
		return c.DownloadAs(ctx, url, platform)
	})
	ctrl := controller.New(backend, nil)
	if platform != "" {
		ctrl.SelectPlatform(platform)
	}

	if err := ctrl.Submit(ctx, url); err != nil {
		return err
	}

	screen := ctrl.Screen()
	result := *screen.Result
	if result.IsSuccess() {
		result.DownloadLink = c.BaseURL() + result.DownloadLink
	}
	fmt.Fprintln(out, result.Text())

	if !result.IsSuccess() {
		return fmt.Errorf("download failed")
	}
	if saveDir == "" {
		return nil
	}

	fileID := strings.TrimPrefix(screen.Result.DownloadLink, "/get-file/")
	return runFetch(ctx, out, c, fileID, saveDir)
}

func runFetch(ctx context.Context, out io.Writer, c *client.Client, fileID, dir string) error {
	path, err := c.FetchFile(ctx, fileID, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved to %s\n", path)
	return nil
}

func runStatus(ctx context.Context, out io.Writer, c *client.Client) error {
	status, err := c.Health(ctx)
	if err != nil {
		return err
	}

	expiry := "stopped"
	if status.Expiry.Running {
		expiry = "running"
	}

	fmt.Fprintln(out, "Server Status:")
	fmt.Fprintf(out, "  Server:    %s\n", c.BaseURL())
	fmt.Fprintf(out, "  Status:    %s\n", status.Status)
	fmt.Fprintf(out, "  Version:   %s\n", status.Version)
	fmt.Fprintf(out, "  Expiry:    %s\n", expiry)
	fmt.Fprintf(out, "  Files:     %d (%d ready, %d delivered)\n", status.Files.Total, status.Files.Ready, status.Files.Delivered)
	return nil
}
