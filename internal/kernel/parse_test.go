package kernel

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseXML(t *testing.T, text string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(text))
	return doc.Root()
}

func TestParseSizeRule(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "1,H,W", want: []string{"1", "H", "W"}},
		{text: "X", want: []string{"X"}},
		{text: "B*F, Y", want: []string{"B*F", " Y"}},
		{text: "a,", want: []string{"a", ""}},
		{text: "", want: []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseSizeRule(tt.text), "parseSizeRule(%q)", tt.text)
	}
}

func TestParseDimSource(t *testing.T) {
	tests := []struct {
		text       string
		wantSource DimSource
		wantIdx    int
		wantErr    bool
	}{
		{text: "input,2", wantSource: DimInput, wantIdx: 2},
		{text: "output", wantSource: DimOutput, wantIdx: -1},
		{text: "INPUT,0", wantSource: DimInput, wantIdx: 0},
		{text: "Output,1", wantSource: DimOutput, wantIdx: 1},
		{text: "bogus", wantErr: true},
		{text: "input,-3", wantErr: true},
		{text: "input,x", wantErr: true},
		{text: "", wantErr: true},
	}
	for _, tt := range tests {
		source, idx, err := parseDimSource(tt.text)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidDescriptor, "parseDimSource(%q)", tt.text)
			continue
		}
		require.NoError(t, err, "parseDimSource(%q)", tt.text)
		assert.Equal(t, tt.wantSource, source)
		assert.Equal(t, tt.wantIdx, idx)
	}
}

func TestParseLayout(t *testing.T) {
	layout, err := parseLayout("bfyx")
	require.NoError(t, err)
	assert.Equal(t, LayoutBFYX, layout)

	layout, err = parseLayout("ANY")
	require.NoError(t, err)
	assert.Equal(t, LayoutAny, layout)

	layout, err = parseLayout("ByXf")
	require.NoError(t, err)
	assert.Equal(t, LayoutBYXF, layout)

	_, err = parseLayout("zzz")
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestParseParametersOrder(t *testing.T) {
	// Parameters walk in group order (Tensor, Data, Scalar) and document
	// order within each group, regardless of physical interleaving.
	node := parseXML(t, `
		<Kernel>
			<Parameters>
				<Tensor type="input" arg-name="src" port-index="0"/>
				<Scalar type="int" arg-name="axis" port-index="0" source="axis"/>
				<Data type="local_data" arg-name="buf" size="64" dim="input,0"/>
				<Tensor type="output" arg-name="dst" port-index="0"/>
			</Parameters>
		</Kernel>`)

	params, err := parseParameters(node)
	require.NoError(t, err)
	require.Len(t, params, 4)

	var names []string
	for _, p := range params {
		names = append(names, p.ArgName)
	}
	assert.Equal(t, []string{"src", "dst", "buf", "axis"}, names)
	assert.Equal(t, []ParamKind{ParamInput, ParamOutput, ParamLocalData, ParamInt},
		[]ParamKind{params[0].Kind, params[1].Kind, params[2].Kind, params[3].Kind})
}

func TestParseParametersTensor(t *testing.T) {
	node := parseXML(t, `
		<Kernel>
			<Parameters>
				<Tensor type="input" arg-name="src" port-index="0"/>
				<Tensor type="output" arg-name="dst" port-index="1" format="byxf"/>
				<Tensor type="input_buffer" arg-name="tmp" port-index="0" size="H*W,4" dim="input,1"/>
			</Parameters>
		</Kernel>`)

	params, err := parseParameters(node)
	require.NoError(t, err)
	require.Len(t, params, 3)

	// Omitted format defaults to BFYX on tensor parameters.
	assert.Equal(t, LayoutBFYX, params[0].Format)
	assert.Equal(t, 0, params[0].PortIndex)
	assert.Equal(t, -1, params[0].DimIndex)

	assert.Equal(t, LayoutBYXF, params[1].Format)
	assert.Equal(t, 1, params[1].PortIndex)

	// Buffer kinds take the first size sub-expression and a dim source.
	assert.Equal(t, ParamInputBuffer, params[2].Kind)
	assert.Equal(t, "H*W", params[2].BufferSizeRule)
	assert.Equal(t, DimInput, params[2].DimSource)
	assert.Equal(t, 1, params[2].DimIndex)
}

func TestParseParametersTensorErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{
			name: "invalid type token",
			xml:  `<Kernel><Parameters><Tensor type="weird" arg-name="a" port-index="0"/></Parameters></Kernel>`,
		},
		{
			name: "missing arg-name",
			xml:  `<Kernel><Parameters><Tensor type="input" port-index="0"/></Parameters></Kernel>`,
		},
		{
			name: "missing port-index",
			xml:  `<Kernel><Parameters><Tensor type="input" arg-name="a"/></Parameters></Kernel>`,
		},
		{
			name: "buffer missing size",
			xml:  `<Kernel><Parameters><Tensor type="input_buffer" arg-name="a" port-index="0" dim="input,0"/></Parameters></Kernel>`,
		},
		{
			name: "buffer missing dim",
			xml:  `<Kernel><Parameters><Tensor type="output_buffer" arg-name="a" port-index="0" size="4"/></Parameters></Kernel>`,
		},
		{
			name: "invalid format",
			xml:  `<Kernel><Parameters><Tensor type="input" arg-name="a" port-index="0" format="zzz"/></Parameters></Kernel>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseParameters(parseXML(t, tt.xml))
			require.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestParseParametersUnknownTypeNamesNode(t *testing.T) {
	_, err := parseParameters(parseXML(t,
		`<Kernel><Parameters><Tensor type="weird" arg-name="a" port-index="0"/></Parameters></Kernel>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tensor")
	assert.Contains(t, err.Error(), "weird")
}

func TestParseParametersData(t *testing.T) {
	node := parseXML(t, `
		<Kernel>
			<Parameters>
				<Data type="data" arg-name="weights" source="custom_layer.weights"/>
				<Data type="data" arg-name="h" dim="input,2"/>
				<Data type="local_data" arg-name="buf" size="F*8" dim="output,1"/>
			</Parameters>
		</Kernel>`)

	params, err := parseParameters(node)
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "custom_layer.weights", params[0].IRSource)
	assert.Equal(t, -1, params[0].DimIndex)

	assert.Equal(t, "", params[1].IRSource)
	assert.Equal(t, DimInput, params[1].DimSource)
	assert.Equal(t, 2, params[1].DimIndex)

	assert.Equal(t, ParamLocalData, params[2].Kind)
	assert.Equal(t, "F*8", params[2].BufferSizeRule)
	assert.Equal(t, DimOutput, params[2].DimSource)
	assert.Equal(t, 1, params[2].DimIndex)
}

func TestParseParametersDataSourceDimExclusive(t *testing.T) {
	_, err := parseParameters(parseXML(t,
		`<Kernel><Parameters><Data type="data" arg-name="a" source="x" dim="input,0"/></Parameters></Kernel>`))
	require.ErrorIs(t, err, ErrInvalidDescriptor)

	_, err = parseParameters(parseXML(t,
		`<Kernel><Parameters><Data type="data" arg-name="a"/></Parameters></Kernel>`))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestParseParametersLocalDataSizeOnly(t *testing.T) {
	params, err := parseParameters(parseXML(t,
		`<Kernel><Parameters><Data type="local_data" arg-name="buf" size="64"/></Parameters></Kernel>`))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "64", params[0].BufferSizeRule)
	assert.Equal(t, -1, params[0].DimIndex)

	_, err = parseParameters(parseXML(t,
		`<Kernel><Parameters><Data type="local_data" arg-name="buf"/></Parameters></Kernel>`))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestParseParametersScalar(t *testing.T) {
	node := parseXML(t, `
		<Kernel>
			<Parameters>
				<Scalar type="int" arg-name="axis" port-index="2"/>
				<Scalar type="float" arg-name="eps" source="epsilon"/>
			</Parameters>
		</Kernel>`)

	params, err := parseParameters(node)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, ParamInt, params[0].Kind)
	assert.Equal(t, 2, params[0].PortIndex)

	assert.Equal(t, ParamFloat, params[1].Kind)
	assert.Equal(t, -1, params[1].PortIndex)
	assert.Equal(t, "epsilon", params[1].IRSource)
	assert.Equal(t, LayoutAny, params[1].Format)
}

func TestParseParametersAbsentBlock(t *testing.T) {
	params, err := parseParameters(parseXML(t, `<Kernel/>`))
	require.NoError(t, err)
	assert.Empty(t, params)
}
