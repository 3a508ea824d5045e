package provider

import "strings"

// SplitPrompt separates a prompt into its system instruction and the
// concatenated user content, for providers whose APIs take the system
// prompt out of band.
func SplitPrompt(prompt Prompt) (system, user string) {
	var systems, users []string
	for _, m := range prompt {
		switch m.Role {
		case RoleSystem:
			systems = append(systems, m.Content)
		default:
			users = append(users, m.Content)
		}
	}
	return strings.Join(systems, "\n"), strings.Join(users, "\n")
}
