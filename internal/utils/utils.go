package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func AskForConfirmationDefaultYes(s string) bool {
	return askForConfirmation(os.Stdin, os.Stdout, s)
}

func askForConfirmation(in io.Reader, out io.Writer, s string) bool {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "%s [Y/n]: ", s)

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes" || response == ""
}

// DumpOption writes opt as YAML to outputPath, creating the parent
// directory with mode 0700. An existing file is only replaced after
// confirmation unless overwrite is set.
func DumpOption(opt interface{}, outputPath string, overwrite bool) error {
	buffer, err := yaml.Marshal(opt)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	parentPath := path.Dir(outputPath)
	if _, err := os.Stat(parentPath); os.IsNotExist(err) {
		if err := os.MkdirAll(parentPath, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", parentPath, err)
		}
	}

	if !overwrite {
		if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
			ret := AskForConfirmationDefaultYes("configuration " + outputPath + " already exist, overwrite?")
			if !ret {
				log.Infoln("abort")
				return nil
			}
		}
	}

	log.Infoln("writing default configuration to", outputPath)
	if err := os.WriteFile(outputPath, buffer, 0600); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}
