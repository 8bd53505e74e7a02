package config

import (
	"fmt"
	"os"
)

func Template() string {
	return packetctlTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(packetctlTemplate), 0o600)
}

const packetctlTemplate = `# transmission source; "-" reads stdin
input = "input.txt"
# text | yaml
format = "text"
# deepest operator nesting accepted while decoding; 0 disables the limit
max_depth = 512
log_level = "info"
`
