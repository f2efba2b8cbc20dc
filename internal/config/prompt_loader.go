package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptPlaceholders is the number of %s verbs each user template must carry
var promptPlaceholders = map[string]int{
	OperationExtract: 1, // resume text
	OperationAnalyze: 2, // user skills, job description
	OperationChat:    0,
}

// ReloadPrompts resolves inline prompts and prompt files for every operation
// and swaps them into the store. On error the previous prompts stay active.
func (c *Config) ReloadPrompts() error {
	if c.Prompts == nil {
		c.Prompts = NewPromptStore()
	}

	sets := make(map[string]PromptSet, len(Operations))
	loaded := 0
	for _, op := range Operations {
		pc := c.AI.operation(op).Prompts

		system, err := resolvePrompt(pc.System, pc.SystemFile, op, "system")
		if err != nil {
			return err
		}
		user, err := resolvePrompt(pc.User, pc.UserFile, op, "user")
		if err != nil {
			return err
		}
		if user != "" {
			if err := validatePromptTemplate(op, user); err != nil {
				return err
			}
		}

		if system != "" {
			loaded++
		}
		if user != "" {
			loaded++
		}
		sets[op] = PromptSet{System: system, User: user}
	}

	c.Prompts.replace(sets)
	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts configured, using built-in defaults")
	} else {
		log.Printf("[CONFIG] Custom prompts loaded: %d", loaded)
	}
	return nil
}

// PromptFiles returns the absolute paths of every configured prompt file
func (c *Config) PromptFiles() []string {
	var files []string
	for _, op := range Operations {
		pc := c.AI.operation(op).Prompts
		for _, f := range []string{pc.SystemFile, pc.UserFile} {
			if f == "" {
				continue
			}
			if abs, err := filepath.Abs(f); err == nil {
				files = append(files, abs)
			}
		}
	}
	return files
}

func resolvePrompt(inline, file, operation, kind string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return strings.TrimSpace(inline), nil
	}
	if file == "" {
		return "", nil
	}
	return loadPromptFromFile(file, operation, kind)
}

// loadPromptFromFile reads a prompt file, rejecting missing or empty files
func loadPromptFromFile(filePath, operation, kind string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %s prompt file '%s': %w", operation, kind, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", operation, kind, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", operation, kind, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", operation, kind, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from %s (%d characters)", operation, kind, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptTemplate checks the user template has the expected %s verbs
func validatePromptTemplate(operation, template string) error {
	want := promptPlaceholders[operation]
	got := strings.Count(strings.ReplaceAll(template, "%%", ""), "%s")
	if got != want {
		return fmt.Errorf("%s user prompt must contain %d %%s placeholder(s), found %d", operation, want, got)
	}
	return nil
}
