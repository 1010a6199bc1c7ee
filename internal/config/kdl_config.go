package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/remap/internal/debug"
	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

var (
	errNotNumber  = errors.New("expected a number")
	errNotInteger = errors.New("expected an integer")
	errNotBool    = errors.New("expected a boolean")
)

func loadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseKDL(content)
}

// parseKDL reads a document of the form
//
//	matching {
//	    abs_threshold 0.7
//	    workers 4
//	}
//	weights {
//	    class-strings 10
//	}
//	include "com/example/**"
//	exclude "java/**" "javax/**"
//	debug true
//
// on top of the defaults.
func parseKDL(content []byte) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "matching":
			for _, cn := range n.Children {
				if err := parseMatchingNode(&cfg.Matching, cn); err != nil {
					return nil, err
				}
			}
		case "weights":
			for _, cn := range n.Children {
				w, ok := firstFloatArg(cn)
				if !ok {
					return nil, invalid("weights."+nodeName(cn), cn, errNotNumber)
				}
				cfg.Weights[nodeName(cn)] = w
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		case "debug":
			b, ok := firstBoolArg(n)
			if !ok {
				return nil, invalid("debug", n, errNotBool)
			}
			cfg.Debug = b
		default:
			debug.Log(debug.ComponentConfig, "ignoring unknown KDL node %q\n", nodeName(n))
		}
	}

	return cfg, nil
}

func parseMatchingNode(m *Matching, n *document.Node) error {
	name := nodeName(n)
	field := "matching." + name

	float := func(dst *float64) error {
		v, ok := firstFloatArg(n)
		if !ok {
			return invalid(field, n, errNotNumber)
		}
		*dst = v
		return nil
	}
	integer := func(dst *int) error {
		v, ok := firstIntArg(n)
		if !ok {
			return invalid(field, n, errNotInteger)
		}
		*dst = v
		return nil
	}

	switch name {
	case "class_max_mismatch":
		return float(&m.ClassMaxMismatch)
	case "method_max_mismatch":
		return float(&m.MethodMaxMismatch)
	case "field_max_mismatch":
		return float(&m.FieldMaxMismatch)
	case "abs_threshold":
		return float(&m.AbsThreshold)
	case "rel_threshold":
		return float(&m.RelThreshold)
	case "workers":
		return integer(&m.Workers)
	case "insn_cache_threshold":
		return integer(&m.InsnCacheThreshold)
	}
	debug.Log(debug.ComponentConfig, "ignoring unknown matching option %q\n", name)
	return nil
}

func invalid(field string, n *document.Node, err error) error {
	value := ""
	if len(n.Arguments) > 0 {
		value = fmt.Sprint(n.Arguments[0].Value)
	}
	return remaperrors.NewConfigError(field, value, err)
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	if v, ok := n.Arguments[0].Value.(int64); ok {
		return int(v), true
	}
	return 0, false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// collectStringArgs accepts both the inline form (exclude "a" "b") and the
// block form (exclude { "a"; "b" }), where each child node's name is the value.
func collectStringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, child := range n.Children {
		if len(child.Arguments) > 0 {
			if s, ok := child.Arguments[0].Value.(string); ok {
				out = append(out, s)
				continue
			}
		}
		if child.Name != nil {
			if s, ok := child.Name.Value.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
