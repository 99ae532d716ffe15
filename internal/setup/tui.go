package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/keltra/config"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the answers
// to config.gen.yaml.
func RunTUI() error {
	var (
		platform        string
		listenAddr      string
		tickIntervalStr string
		initialUsdcStr  string
		journalDir      string
		confirm         bool
	)

	// defaults
	listenAddr = ":8088"
	tickIntervalStr = "1s"
	initialUsdcStr = config.DefaultInitialUsdc
	journalDir = "claims-journal"

	// step 1: welcome + oracle
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("KELTRA CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Simulated yield vaults, real price feeds.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PRICE ORACLE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should reward token prices come from?").
				Options(
					huh.NewOption("Static (built-in mock prices)", "static"),
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 2: timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KELTRA CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Accrual Tick Interval").
				Description("Duration string (e.g. 1s, 5s, 1m)").
				Value(&tickIntervalStr).
				Validate(func(s string) error {
					d, err := time.ParseDuration(s)
					if err != nil {
						return err
					}
					if d <= 0 {
						return fmt.Errorf("must be positive")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 3: wallet and server
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KELTRA CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: WALLET AND SERVER"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial USDC Balance").
				Description("Starting balance of the simulated wallet").
				Value(&initialUsdcStr).
				Validate(validateBalance),
			huh.NewInput().
				Title("Dashboard Listen Address").
				Description("host:port (e.g. :8088)").
				Value(&listenAddr).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("listen address cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Claim Journal Directory").
				Value(&journalDir),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("KELTRA CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Oracle: %s\nTick: %s\nInitial USDC: %s\nListen: %s\nJournal: %s\n",
		platform, tickIntervalStr, initialUsdcStr, listenAddr, journalDir,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	tickInterval, _ := time.ParseDuration(tickIntervalStr)

	cfg := config.FileConfig{
		Platform:     platform,
		ListenAddr:   listenAddr,
		TickInterval: tickInterval,
		JournalDir:   journalDir,
		InitialUsdc:  initialUsdcStr,
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting vaults...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateBalance(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
