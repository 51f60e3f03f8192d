package emitter

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// emitParameters writes one declaration per parameter: a "static constexpr"
// member when a default value was given (the value never varies at
// runtime, spec.md §4.6), or a plain instance field plus a singleton
// initialiser reference otherwise (the out-of-line case, initialised from
// a parameter file at runtime).
func emitParameters(buf *bytes.Buffer, data *behaviour.Data) {
	for _, p := range data.Parameters {
		if len(p.DefaultValue) == 1 {
			io.Ff(buf, "static constexpr %s %s = %v;\n", p.Type, p.Name, p.DefaultValue[0])
			continue
		}
		io.Ff(buf, "%s %s; // set from %sParameters singleton\n", p.Type, p.Name, p.Name)
	}
}

// ReadParameterFile parses a "name value" parameter-override file (spec.md
// §6): one assignment per line, blank lines and "#"-prefixed comments
// ignored. A missing file is not an error -- it returns an empty map, since
// the parameter file is optional scaffolding around compiled-in defaults.
func ReadParameterFile(path string) (map[string]float64, error) {
	out := map[string]float64{}
	data, err := io.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, mferr.New(mferr.SyntaxError, "readParameterFile",
				"%s:%d: expected \"name value\", found %q", path, line, text)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, mferr.New(mferr.SyntaxError, "readParameterFile",
				"%s:%d: invalid numeric value %q", path, line, fields[1])
		}
		out[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
