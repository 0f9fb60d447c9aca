package docker

import (
	"fmt"

	"excheck/internal/domain/exercise"
)

const (
	pythonScriptFilename = "exercise.py"
	goSourceFilename     = "main.go"
	goBinaryFilename     = "exercise"
)

func strategyForLanguage(lang exercise.Language) (languageStrategy, error) {
	switch lang {
	case exercise.LanguagePython:
		return &pythonStrategy{}, nil
	case exercise.LanguageGo:
		return &goStrategy{}, nil
	default:
		return nil, fmt.Errorf("docker runtime: no strategy registered for language %q", lang)
	}
}
