// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

type ref struct {
	file string
	line int
}

type refList []ref

// extractor walks the syntax of one package.
type extractor struct {
	refs        map[string]refList
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
}

// extractRefs finds every message key in pkgs:
//   - the key argument of i18n.Tr and i18n.NewUserError
//   - constants converted to i18n.MsgKey, explicitly or by passing them
//     where an i18n.MsgKey is expected
//   - constant Key fields of i18n.Msg literals
func extractRefs(pkgs []*packages.Package, projectRoot string, i18nPkgs map[string]struct{}) map[string]refList {
	refs := map[string]refList{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:        refs,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgs,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCall(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the paths of packages named i18n that define a
// string-based MsgKey, however they are imported.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := map[string]struct{}{}

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// constString evaluates expr to a constant string, including const
// identifiers and concatenations.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isI18nType reports whether t is the named type i18n.<name>.
func (e *extractor) isI18nType(t types.Type, name string) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Name() != name {
		return false
	}

	_, ok = e.i18nPkgs[obj.Pkg().Path()]

	return ok
}

func (e *extractor) isMsgKey(t types.Type) bool {
	return e.isI18nType(t, "MsgKey")
}

func (e *extractor) addConst(expr ast.Expr) {
	if msg, ok := constString(e.info, expr); ok {
		p := e.fset.Position(expr.Pos())

		file := p.Filename
		if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
			file = rel
		}

		e.refs[msg] = append(e.refs[msg], ref{file: filepath.ToSlash(file), line: p.Line})
	}
}

func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		keys, values := e.isMsgKey(u.Key()), e.isMsgKey(u.Elem())

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keys {
				e.addConst(kv.Key)
			}

			if values {
				e.addConst(kv.Value)
			}
		}

	case *types.Slice:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Array:
		if e.isMsgKey(u.Elem()) {
			for _, elt := range x.Elts {
				e.addConst(elt)
			}
		}

	case *types.Struct:
		isMsg := e.isI18nType(t, "Msg")

		for i, elt := range x.Elts {
			var field *types.Var

			value := elt

			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				id, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}

				field = structField(u, id.Name)
				value = kv.Value
			} else if i < u.NumFields() {
				field = u.Field(i)
			}

			if field == nil {
				continue
			}

			if e.isMsgKey(field.Type()) || (isMsg && field.Name() == "Key") {
				e.addConst(value)
			}
		}
	}
}

func structField(s *types.Struct, name string) *types.Var {
	for i := range s.NumFields() {
		if f := s.Field(i); f.Name() == name {
			return f
		}
	}

	return nil
}

func (e *extractor) handleCall(x *ast.CallExpr) {
	// i18n.MsgKey("...")
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isMsgKey(tv.Type) {
			e.addConst(x.Args[0])
		}

		return
	}

	// Tr(ctx, "key", ...) and NewUserError(ctx, "key", ...)
	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ours := e.i18nPkgs[fn.Pkg().Path()]; ours && (fn.Name() == "Tr" || fn.Name() == "NewUserError") {
				if len(x.Args) >= 2 {
					e.addConst(x.Args[1])
				}

				return
			}
		}
	}

	// any call with MsgKey parameters
	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok {
		return
	}

	params := sig.Params()
	if params.Len() == 0 {
		return
	}

	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			// f(xs...) is handled by the composite literal of xs
			if x.Ellipsis != token.NoPos {
				continue
			}

			slice, ok := params.At(last).Type().(*types.Slice)
			if !ok {
				continue
			}

			pt = slice.Elem()
		case i < params.Len():
			pt = params.At(i).Type()
		default:
			continue
		}

		if e.isMsgKey(pt) {
			e.addConst(arg)
		}
	}
}
