package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the configured media backend needs a binary
// that is not installed. The null backend needs nothing.
func CheckDependencies() {
	if viper.GetString(key.PlayerBackend) != player.BackendMPV {
		return
	}

	binary := viper.GetString(key.PlayerMPVPath)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The preview backend '%s' was not found in your PATH.", dep))

	suggestion := fmt.Sprintf("\n\nUse %s to edit without preview", style.New().Foreground(style.AccentColor).Render("--backend null"))
	if installCmd != "" {
		suggestion += fmt.Sprintf(", or install it:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
