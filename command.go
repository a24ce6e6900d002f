package qsim

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExpr matches pi, 2pi, 2*pi, pi/2, 3*pi/4, -pi/2 and the like.
var piExpr = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

var (
	singleQubitCommands = map[string]func(int) Gate{
		"H": NewHadamard,
		"X": NewPauliX,
		"Y": NewPauliY,
		"Z": NewPauliZ,
		"S": NewS,
		"T": NewT,
	}
	twoQubitCommands = map[string]func(int, int) Gate{
		"CNOT": NewCNOT,
		"CZ":   NewCZ,
		"SWAP": NewSWAP,
	}
	rotationCommands = map[string]func(int, float64) Gate{
		"RX": NewRX,
		"RY": NewRY,
		"RZ": NewRZ,
	}
)

/*
ApplyCommand parses one whitespace separated command and applies it to
circuit. Mnemonics are case-insensitive:

	H|X|Y|Z|S|T q
	CNOT|CZ|SWAP q1 q2
	RX|RY|RZ q angle
	TOFFOLI c1 c2 t
	MEASURE q
	MEASURE_ALL
*/
func ApplyCommand(circuit *QuantumCircuit, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", ErrMalformedCommand)
	}

	name := strings.ToUpper(fields[0])
	args := fields[1:]

	if ctor, ok := singleQubitCommands[name]; ok {
		qubits, err := parseQubits(name, args, 1)
		if err != nil {
			return err
		}
		return circuit.AddGate(ctor(qubits[0]))
	}

	if ctor, ok := twoQubitCommands[name]; ok {
		qubits, err := parseQubits(name, args, 2)
		if err != nil {
			return err
		}
		return circuit.AddGate(ctor(qubits[0], qubits[1]))
	}

	if ctor, ok := rotationCommands[name]; ok {
		if len(args) != 2 {
			return fmt.Errorf("%w: %s expects a qubit and an angle", ErrMalformedCommand, name)
		}
		qubits, err := parseQubits(name, args[:1], 1)
		if err != nil {
			return err
		}
		angle, err := ParseAngle(args[1])
		if err != nil {
			return err
		}
		return circuit.AddGate(ctor(qubits[0], angle))
	}

	switch name {
	case "TOFFOLI", "CCX":
		qubits, err := parseQubits(name, args, 3)
		if err != nil {
			return err
		}
		return circuit.Toffoli(qubits[0], qubits[1], qubits[2])
	case "MEASURE":
		qubits, err := parseQubits(name, args, 1)
		if err != nil {
			return err
		}
		return circuit.Measure(qubits[0])
	case "MEASURE_ALL":
		if len(args) != 0 {
			return fmt.Errorf("%w: MEASURE_ALL takes no arguments", ErrMalformedCommand)
		}
		circuit.MeasureAll()
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
}

func parseQubits(name string, args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf(
			"%w: %s expects %d qubit(s), got %d", ErrMalformedCommand, name, want, len(args),
		)
	}

	qubits := make([]int, want)
	for i, arg := range args {
		q, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad qubit %q", ErrMalformedCommand, name, arg)
		}
		qubits[i] = q
	}
	return qubits, nil
}

// ParseAngle accepts a finite float or a pi expression such as pi/2 or -3*pi/4.
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty angle", ErrMalformedCommand)
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("%w: non-finite angle %q", ErrMalformedCommand, s)
		}
		return val, nil
	}

	matches := piExpr.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, fmt.Errorf("%w: bad angle %q", ErrMalformedCommand, s)
	}

	coeff := 1.0
	if matches[2] != "" {
		var err error
		if coeff, err = strconv.ParseFloat(matches[2], 64); err != nil {
			return 0, fmt.Errorf("%w: bad angle %q", ErrMalformedCommand, s)
		}
	}

	result := coeff * math.Pi
	if matches[3] != "" {
		denom, err := strconv.ParseFloat(matches[3], 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("%w: bad angle %q", ErrMalformedCommand, s)
		}
		result /= denom
	}

	if matches[1] == "-" {
		result = -result
	}
	return result, nil
}

/*
ParseScript builds a circuit from one command per line. Blank lines and
anything after a # are ignored. Errors carry the 1-based line number.
*/
func ParseScript(r io.Reader, numQubits int) (*QuantumCircuit, error) {
	circuit := NewQuantumCircuit(numQubits)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := ApplyCommand(circuit, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return circuit, nil
}
