package availability

// DefaultRegexes returns the regular expressions describing compound families
// that are always available: single ions, mono- and diatomic elements, and
// their bracketed forms.
func DefaultRegexes() []string {
	return []string{
		`^\[\w{1,3}[+-]\d?\]$`,
		`^([A-Z][a-z]?){1,2}$`,
		`^(\[[A-Z][a-z]?\]){1,2}$`,
		`^\[([A-Z][a-z]?){1,2}\]$`,
		`^[A-Z].?[A-Z]$`,
	}
}

// DefaultSubstructurePatterns returns the substructure patterns describing
// biochemical reaction cofactors that are always available (coenzyme A,
// nucleotide cofactors, porphyrins, iron-sulfur clusters).
func DefaultSubstructurePatterns() []string {
	return []string{
		"O=C(NCC*)CCNC(=O)C(O)C(C)(C)COP(=O)(*)OP(=O)(*)OC*3O*(n2cnc1c(ncnc12)N)*(O)*3OP(=O)(*)*",
		"**1*(*)*(COP(*)(=O)OP(*)(=O)OC*2O*(*)*(*)*2*)O*1*",
		"**1*(*)*(O*1COP(*)(=O)O)[R]",
		"*P(*)(=O)O*1*(*)*(*)O[*]1COP(*)(*)=O",
		"**1*(*)*(O*1CS*)[R]",
		"**1**2**3*(**(=O)**3=O)*(*)*2**1*",
		"*~1~*~*~2~*~*~1~*~*~1~*~*~*(~*~*~3~*~*~*(~*~*~4~*~*~*(~*~2)~*~4)~*~3)~*~1",
		"S1[Fe]S[Fe]1",
	}
}

// BiochemicalByproducts returns common biochemical compounds (phosphates,
// choline, acetate and friends) that commercial catalogs do not list.
func BiochemicalByproducts() []string {
	return []string{
		"O=P([O-])([O-])[O-]",
		"O=P([O-])([O-])O",
		"C[N+](C)(C)CCO",
		"NCCO",
		"O=P([O-])([O-])OP(=O)([O-])[O-]",
		"O=P([O-])([O-])OP(=O)([O-])O",
		"O=C([O-])CCC(=O)C(=O)[O-]",
		"CC(=O)[O-]",
		"CC(=O)C(=O)[O-]",
	}
}
