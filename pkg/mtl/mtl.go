// Package mtl reads Wavefront material libraries into the color table used by the OBJ parser.
package mtl

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/objtool/pkg/obj"
)

// ParseFile reads and parses the material library at path.
func ParseFile(path string) (obj.Materials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read material library %q", path)
	}
	return Parse(string(data))
}

// Parse turns MTL text into a material table. Only the diffuse color (Kd) and
// the dissolve factor (d, or its inverse Tr) are kept. A material without Kd is white.
func Parse(text string) (obj.Materials, error) {
	materials := make(obj.Materials)

	var current string
	lineNum := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, errors.Errorf("missed material name on line %v", lineNum)
			}
			current = strings.Join(fields[1:], " ")
			materials[current] = obj.Color{1, 1, 1, 1}
			continue
		}

		switch fields[0] {
		case "Kd", "d", "Tr":
		default:
			continue
		}
		if current == "" {
			return nil, errors.Errorf("got %q without newmtl on line %v", fields[0], lineNum)
		}

		c := materials[current]
		switch fields[0] {
		case "Kd":
			if len(fields) < 4 {
				return nil, errors.Errorf("expected 3 components for Kd on line %v (%q)", lineNum, scanner.Text())
			}
			for i := 0; i < 3; i++ {
				v, err := parseComponent(fields[i+1])
				if err != nil {
					return nil, errors.Wrapf(err, "bad Kd component on line %v", lineNum)
				}
				c[i] = v
			}
		case "d", "Tr":
			if len(fields) < 2 {
				return nil, errors.Errorf("missed value for %s on line %v", fields[0], lineNum)
			}
			v, err := parseComponent(fields[len(fields)-1])
			if err != nil {
				return nil, errors.Wrapf(err, "bad %s value on line %v", fields[0], lineNum)
			}
			if fields[0] == "Tr" {
				v = 1 - v
			}
			c[3] = v
		}
		materials[current] = c
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan material library")
	}

	return materials, nil
}

// parseComponent parses a color channel and clamps it to [0, 1].
func parseComponent(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("unknown number format %q", s)
	}
	if v < 0 {
		return 0, nil
	}
	if v > 1 {
		return 1, nil
	}
	return v, nil
}
