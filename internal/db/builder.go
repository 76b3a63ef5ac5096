package db

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:        name,
			StorageType: StorageJSON,
		},
	}
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field to the index.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldNumeric})
	return b
}

// Tag adds a TAG field to the index.
func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldTag})
	return b
}

// TagAs adds a TAG field with an AS alias (for JSONPath fields).
func (b *IndexBuilder) TagAs(name, alias string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Alias: alias, Type: IndexFieldTag})
	return b
}

// Text adds a TEXT field to the index.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
