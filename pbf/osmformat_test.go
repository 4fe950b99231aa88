package pbf

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendPackedSint64(dst []byte, num protowire.Number, vals []int64) []byte {
	var packed []byte
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(v))
	}
	dst = protowire.AppendTag(dst, num, protowire.BytesType)

	return protowire.AppendBytes(dst, packed)
}

func appendPackedInt32(dst []byte, num protowire.Number, vals []int32) []byte {
	var packed []byte
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, uint64(int64(v))) //nolint:gosec
	}
	dst = protowire.AppendTag(dst, num, protowire.BytesType)

	return protowire.AppendBytes(dst, packed)
}

func appendSubMessage(dst []byte, num protowire.Number, msg []byte) []byte {
	dst = protowire.AppendTag(dst, num, protowire.BytesType)

	return protowire.AppendBytes(dst, msg)
}

func appendStringTable(dst []byte, entries ...string) []byte {
	var table []byte
	for _, s := range entries {
		table = protowire.AppendTag(table, 1, protowire.BytesType)
		table = protowire.AppendString(table, s)
	}

	return appendSubMessage(dst, 1, table)
}

func TestUnmarshalHeaderBlock_ValidInput(t *testing.T) {
	var bbox []byte
	for num, v := range map[protowire.Number]int64{1: -10, 2: 10, 3: 20, 4: -20} {
		bbox = protowire.AppendTag(bbox, num, protowire.VarintType)
		bbox = protowire.AppendVarint(bbox, protowire.EncodeZigZag(v))
	}

	b := appendSubMessage(nil, 1, bbox)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "OsmSchema-V0.6")
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "DenseNodes")
	b = protowire.AppendTag(b, 16, protowire.BytesType)
	b = protowire.AppendString(b, "osmium")
	b = protowire.AppendTag(b, 32, protowire.VarintType)
	b = protowire.AppendVarint(b, 1700000000)

	header, err := UnmarshalHeaderBlock(b)
	require.NoError(t, err)
	require.NotNil(t, header.BBox)
	require.Equal(t, int64(-10), header.BBox.Left)
	require.Equal(t, int64(10), header.BBox.Right)
	require.Equal(t, int64(20), header.BBox.Top)
	require.Equal(t, int64(-20), header.BBox.Bottom)
	require.Equal(t, []string{"OsmSchema-V0.6", "DenseNodes"}, header.RequiredFeatures)
	require.Equal(t, "osmium", header.WritingProgram)
	require.NotNil(t, header.ReplicationTimestamp)
	require.Equal(t, int64(1700000000), *header.ReplicationTimestamp)
	require.Nil(t, header.ReplicationSequenceNumber)
}

func TestUnmarshalPrimitiveBlock_Defaults(t *testing.T) {
	b := appendStringTable(nil, "")

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Equal(t, int32(DefaultGranularity), block.Granularity)
	require.Equal(t, int32(DefaultDateGranularity), block.DateGranularity)
	require.Zero(t, block.LatOffset)
	require.Zero(t, block.LonOffset)
	require.Len(t, block.StringTable.S, 1)
}

func TestUnmarshalPrimitiveBlock_ScalingFields(t *testing.T) {
	b := appendStringTable(nil, "")
	b = protowire.AppendTag(b, 17, protowire.VarintType)
	b = protowire.AppendVarint(b, 1000)
	b = protowire.AppendTag(b, 18, protowire.VarintType)
	b = protowire.AppendVarint(b, 2000)
	b = protowire.AppendTag(b, 19, protowire.VarintType)
	b = protowire.AppendVarint(b, 5)
	b = protowire.AppendTag(b, 20, protowire.VarintType)
	b = protowire.AppendVarint(b, 6)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Equal(t, int32(1000), block.Granularity)
	require.Equal(t, int32(2000), block.DateGranularity)
	require.Equal(t, int64(5), block.LatOffset)
	require.Equal(t, int64(6), block.LonOffset)
}

func TestUnmarshalPrimitiveBlock_DenseNodes(t *testing.T) {
	dense := appendPackedSint64(nil, 1, []int64{2, -1})
	dense = appendPackedSint64(dense, 8, []int64{-3, 1})
	dense = appendPackedSint64(dense, 9, []int64{3, -1})
	dense = appendPackedInt32(dense, 10, []int32{1, 2, 0, 3, 4, 0})

	var info []byte
	info = appendPackedInt32(info, 1, []int32{1, 1})
	info = appendPackedSint64(info, 2, []int64{100, 10})
	dense = appendSubMessage(dense, 5, info)

	group := appendSubMessage(nil, 2, dense)
	b := appendStringTable(nil, "", "key1", "val1", "key2", "val2")
	b = appendSubMessage(b, 2, group)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Len(t, block.Groups, 1)

	d := block.Groups[0].Dense
	require.NotNil(t, d)
	require.Equal(t, []int64{2, -1}, d.ID)
	require.Equal(t, []int64{-3, 1}, d.Lat)
	require.Equal(t, []int64{3, -1}, d.Lon)
	require.Equal(t, []int32{1, 2, 0, 3, 4, 0}, d.KeysVals)
	require.NotNil(t, d.DenseInfo)
	require.Equal(t, []int32{1, 1}, d.DenseInfo.Version)
	require.Equal(t, []int64{100, 10}, d.DenseInfo.Timestamp)
	require.Empty(t, d.DenseInfo.UID)
}

func TestUnmarshalPrimitiveBlock_UnpackedRepeated(t *testing.T) {
	// proto2 parsers must accept unpacked encodings of packed fields.
	var dense []byte
	for _, v := range []int64{5, -2} {
		dense = protowire.AppendTag(dense, 1, protowire.VarintType)
		dense = protowire.AppendVarint(dense, protowire.EncodeZigZag(v))
	}
	dense = appendPackedSint64(dense, 8, []int64{0, 0})
	dense = appendPackedSint64(dense, 9, []int64{0, 0})

	group := appendSubMessage(nil, 2, dense)
	b := appendStringTable(nil, "")
	b = appendSubMessage(b, 2, group)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Equal(t, []int64{5, -2}, block.Groups[0].Dense.ID)
}

func TestUnmarshalPrimitiveBlock_Ways(t *testing.T) {
	var way []byte
	way = protowire.AppendTag(way, 1, protowire.VarintType)
	way = protowire.AppendVarint(way, 42)
	var keys []byte
	keys = protowire.AppendVarint(keys, 1)
	way = appendSubMessage(way, 2, keys)
	var vals []byte
	vals = protowire.AppendVarint(vals, 2)
	way = appendSubMessage(way, 3, vals)
	way = appendPackedSint64(way, 8, []int64{100, 1, 1})

	group := appendSubMessage(nil, 3, way)
	b := appendStringTable(nil, "", "highway", "primary")
	b = appendSubMessage(b, 2, group)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Len(t, block.Groups[0].Ways, 1)

	w := block.Groups[0].Ways[0]
	require.Equal(t, int64(42), w.ID)
	require.Equal(t, []uint32{1}, w.Keys)
	require.Equal(t, []uint32{2}, w.Vals)
	require.Equal(t, []int64{100, 1, 1}, w.Refs)
}

func TestUnmarshalPrimitiveBlock_Relations(t *testing.T) {
	var rel []byte
	rel = protowire.AppendTag(rel, 1, protowire.VarintType)
	rel = protowire.AppendVarint(rel, 9)
	rel = appendPackedInt32(rel, 8, []int32{1, 1})
	rel = appendPackedSint64(rel, 9, []int64{7, -3})
	rel = appendPackedInt32(rel, 10, []int32{0, 1})

	group := appendSubMessage(nil, 4, rel)
	b := appendStringTable(nil, "", "outer")
	b = appendSubMessage(b, 2, group)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Len(t, block.Groups[0].Relations, 1)

	r := block.Groups[0].Relations[0]
	require.Equal(t, int64(9), r.ID)
	require.Equal(t, []int32{1, 1}, r.RolesSid)
	require.Equal(t, []int64{7, -3}, r.MemIDs)
	require.Equal(t, []MemberType{MemberNode, MemberWay}, r.Types)
}

func TestUnmarshalPrimitiveBlock_NodeWithInfo(t *testing.T) {
	var info []byte
	info = protowire.AppendTag(info, 1, protowire.VarintType)
	info = protowire.AppendVarint(info, 3)
	info = protowire.AppendTag(info, 6, protowire.VarintType)
	info = protowire.AppendVarint(info, 1)

	var node []byte
	node = protowire.AppendTag(node, 1, protowire.VarintType)
	node = protowire.AppendVarint(node, protowire.EncodeZigZag(-17))
	node = appendSubMessage(node, 4, info)
	node = protowire.AppendTag(node, 8, protowire.VarintType)
	node = protowire.AppendVarint(node, protowire.EncodeZigZag(55))
	node = protowire.AppendTag(node, 9, protowire.VarintType)
	node = protowire.AppendVarint(node, protowire.EncodeZigZag(-66))

	group := appendSubMessage(nil, 1, node)
	b := appendStringTable(nil, "")
	b = appendSubMessage(b, 2, group)

	block, err := UnmarshalPrimitiveBlock(b)
	require.NoError(t, err)
	require.Len(t, block.Groups[0].Nodes, 1)

	n := block.Groups[0].Nodes[0]
	require.Equal(t, int64(-17), n.ID)
	require.Equal(t, int64(55), n.Lat)
	require.Equal(t, int64(-66), n.Lon)
	require.NotNil(t, n.Info)
	require.Equal(t, int32(3), *n.Info.Version)
	require.True(t, *n.Info.Visible)
	require.Nil(t, n.Info.Timestamp)
}

func TestUnmarshalPrimitiveBlock_Malformed(t *testing.T) {
	b := protowire.AppendTag(nil, 2, protowire.BytesType)
	b = protowire.AppendVarint(b, 1000) // declared length beyond buffer

	_, err := UnmarshalPrimitiveBlock(b)
	require.Error(t, err)
}

func TestMemberType_String(t *testing.T) {
	require.Equal(t, "node", MemberNode.String())
	require.Equal(t, "way", MemberWay.String())
	require.Equal(t, "relation", MemberRelation.String())
	require.Equal(t, "unknown", MemberType(9).String())
}
