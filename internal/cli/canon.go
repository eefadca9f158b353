package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/traitir/internal/canon"
	"github.com/roach88/traitir/internal/harness"
	"github.com/roach88/traitir/internal/ir"
	"github.com/roach88/traitir/internal/syntax"
)

// CanonOptions holds flags for the canon command.
type CanonOptions struct {
	*RootOptions
	Vars     string
	Items    []string
	Binds    []string
	Interner string
}

// CanonResult is the output of the canon command.
type CanonResult struct {
	Query      string `json:"query"`
	UCanonical string `json:"ucanonical"`
	FreeVars   string `json:"free_vars"`
	Universes  int    `json:"universes"`
	Key        string `json:"key"`
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canon <query>",
		Short: "Canonicalize a query and print its cache key",
		Long: `Parse a query in fixture notation, canonicalize and universe-compact
it, and print the u-canonical form with its cache key.

Inference variables in the query must be declared with --vars, one kind
per variable in index order. Item names are declared with --item.

Examples:
  traitir canon --item adt=Vec --item trait=Clone --vars "ty U0" \
      "Implemented(Vec<?0>: Clone)"
  traitir canon --vars "ty U0, ty U0" --bind "?1=u32" "Eq(?0, ?1)"
  traitir canon --format json "forall<T> { Implemented(T: Copy) }"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(cmd, opts, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.Vars, "vars", "", `inference variable kinds, e.g. "ty U0, lifetime U1"`)
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "declare an item name as kind=Name (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Binds, "bind", nil, "bind a variable before canonicalizing as ?N=arg (repeatable)")
	cmd.Flags().StringVar(&opts.Interner, "interner", "hashcons", "interner implementation (boxed|hashcons)")

	return cmd
}

func runCanon(cmd *cobra.Command, opts *CanonOptions, query string) error {
	out := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	in, err := harness.NewInterner(opts.Interner)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeVars, err.Error(), nil)
	}
	syms, err := declareItems(opts.Items)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeVars, err.Error(), nil)
	}
	p := syntax.NewParser(in, syms)

	q, err := p.Query(query)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeParse, err.Error(), query)
	}
	kinds, err := p.VarKinds(opts.Vars)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeVars, fmt.Sprintf("vars: %v", err), opts.Vars)
	}

	t := canon.NewInferenceTable(in, canon.WithLogger(logger))
	for _, k := range kinds {
		t.EnsureUniverse(k.Value)
		t.NewVariableOfKind(k.Kind, k.Value)
	}
	for _, v := range ir.InferenceVars(in, q) {
		if int(v) >= t.Len() {
			return out.Fail(ExitCommandError, ErrCodeVars,
				fmt.Sprintf("inference variable ?%d is not declared in --vars", v), nil)
		}
	}
	if err := bindVars(t, p, opts.Binds); err != nil {
		return out.Fail(ExitFailure, ErrCodeCanon, err.Error(), nil)
	}

	result, err := canonicalizeQuery(t, syms, q)
	if err != nil {
		return out.Fail(ExitFailure, ErrCodeCanon, err.Error(), nil)
	}
	result.Query = query
	out.VerboseLog("canonicalized with %s interner, %d slots", opts.Interner, len(kinds))

	if out.IsJSON() {
		return out.Success(result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.UCanonical)
	fmt.Fprintf(w, "free: %s\n", result.FreeVars)
	fmt.Fprintf(w, "key: %s\n", result.Key)
	return nil
}

// canonicalizeQuery canonicalizes q against t. A query mentioning a free
// bound variable cannot be canonicalized; that panic is reported as an
// error.
func canonicalizeQuery(t *canon.InferenceTable, syms *syntax.Symbols, q ir.InEnvironment[ir.Goal]) (result *CanonResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%v", r)
		}
	}()

	in := t.Interner()
	uc, free := canon.CanonicalizeGoal(t, q)
	args := make([]ir.GenericArg, len(free))
	for i, v := range free {
		args[i] = t.ToArg(v.Value)
	}
	return &CanonResult{
		UCanonical: ir.RenderWith(in, syms, uc.Quantified),
		FreeVars:   ir.Render(in, ir.NewSubstitution(in, args...)),
		Universes:  uc.Quantified.Universes,
		Key:        string(ir.KeyOf(in, uc.Quantified)),
	}, nil
}

// declareItems builds a symbol table from kind=Name declarations.
func declareItems(decls []string) (*syntax.Symbols, error) {
	syms := syntax.NewSymbols()
	for _, decl := range decls {
		kindName, name, ok := strings.Cut(decl, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("item %q: expected kind=Name", decl)
		}
		kind, ok := harness.ParseItemKind(kindName)
		if !ok {
			return nil, fmt.Errorf("item %q: unknown item kind %q", decl, kindName)
		}
		syms.Intern(kind, name)
	}
	return syms, nil
}

// bindVars applies ?N=arg bindings in variable order. Binding a variable
// twice or to an argument of the wrong kind is reported as an error.
func bindVars(t *canon.InferenceTable, p *syntax.Parser, binds []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	type binding struct {
		v   ir.InferenceVar
		src string
	}
	parsed := make([]binding, 0, len(binds))
	for _, b := range binds {
		name, src, ok := strings.Cut(b, "=")
		n, err := strconv.Atoi(strings.TrimPrefix(name, "?"))
		if !ok || err != nil || !strings.HasPrefix(name, "?") {
			return fmt.Errorf("bind %q: expected ?N=arg", b)
		}
		if n < 0 || n >= t.Len() {
			return fmt.Errorf("bind %q: inference variable ?%d is not declared in --vars", b, n)
		}
		parsed = append(parsed, binding{v: ir.InferenceVar(n), src: src})
	}
	slices.SortStableFunc(parsed, func(a, b binding) int { return int(a.v) - int(b.v) })

	for _, b := range parsed {
		arg, err := p.Arg(b.src)
		if err != nil {
			return fmt.Errorf("bind ?%d: %w", b.v, err)
		}
		if err := t.Bind(b.v, arg); err != nil {
			return fmt.Errorf("bind ?%d: %w", b.v, err)
		}
	}
	return nil
}
