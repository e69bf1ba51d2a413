package hlslbuild

// AppendStructDecl appends the HLSL declaration of s containing its required
// fields and the optional fields present in active, in declaration order.
//
//	struct <s.Name> {
//		<type> <name>[ : <semantic>];
//	};
func AppendStructDecl(dst []byte, s Struct, active FieldSet) []byte {
	dst = append(dst, "struct "...)
	dst = append(dst, s.Name...)
	dst = append(dst, " {\n"...)
	for _, f := range s.Fields {
		if !s.IsActive(f, active) {
			continue
		}
		dst = appendFieldDecl(dst, f)
	}
	dst = append(dst, "};\n"...)
	return dst
}

// appendFieldDecl appends a single guarded struct member declaration.
func appendFieldDecl(dst []byte, f Field) []byte {
	dst = appendGuardOpen(dst, f.Guard)
	dst = appendMemberDecl(dst, f.NoInterpolation, f.TypeName(), f.Name, f.Semantic)
	dst = appendGuardClose(dst, f.Guard)
	return dst
}

func appendMemberDecl(dst []byte, noInterp bool, typename, name, semantic string) []byte {
	dst = append(dst, '\t')
	if noInterp {
		dst = append(dst, noInterpolationModifier...)
		dst = append(dst, ' ')
	}
	dst = append(dst, typename...)
	dst = append(dst, ' ')
	dst = append(dst, name...)
	if semantic != "" {
		dst = append(dst, " : "...)
		dst = append(dst, semantic...)
	}
	dst = append(dst, ";\n"...)
	return dst
}
