package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/navigation"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it. locales lists the codes offered as default locale.
func RunWizard(path string, locales []string) (*Config, error) {
	fmt.Println("Welcome! Let's configure the whitepaper reader.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Default locale.
	if len(locales) > 0 {
		localePrompt := promptui.Select{
			Label: "Select default language",
			Items: locales,
		}
		_, locale, err := localePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("locale selection: %w", err)
		}
		cfg.Content.DefaultLocale = locale
	}

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Jump policy.
	policyPrompt := promptui.Select{
		Label: "While a jump is in flight, new outline clicks",
		Items: []string{
			"drop    (ignore until the current jump finishes)",
			"replace (cancel the current jump and start the new one)",
		},
	}
	policyIdx, _, err := policyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("policy selection: %w", err)
	}
	cfg.Navigation.Policy = []navigation.Policy{navigation.PolicyDrop, navigation.PolicyReplace}[policyIdx]

	// 4. Settle mode.
	settlePrompt := promptui.Select{
		Label: "Wait for an opened section to settle by",
		Items: []string{
			"fixed  (a fixed delay)",
			"stable (polling until the layout stops moving)",
		},
	}
	settleIdx, _, err := settlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("settle mode selection: %w", err)
	}
	cfg.Navigation.SettleMode = []navigation.SettleMode{navigation.SettleFixed, navigation.SettleStable}[settleIdx]

	// 5. CORS origins.
	originsPrompt := promptui.Prompt{
		Label:   "Extra allowed CORS origins (comma-separated, blank for localhost only)",
		Default: "",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(originsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
