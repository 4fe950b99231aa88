package pbf

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Default scaling constants applied when a PrimitiveBlock omits the
// corresponding fields, per the osmformat schema.
const (
	DefaultGranularity     = 100
	DefaultDateGranularity = 1000
)

// HeaderBBox is the bounding box of a header block, in nanodegrees.
type HeaderBBox struct {
	Left   int64
	Right  int64
	Top    int64
	Bottom int64
}

// HeaderBlock is the decoded "OSMHeader" block. It describes the file as a
// whole: feature requirements, provenance and replication state.
type HeaderBlock struct {
	BBox *HeaderBBox

	// RequiredFeatures lists features a reader must support to parse the
	// file, e.g. "OsmSchema-V0.6" or "DenseNodes".
	RequiredFeatures []string

	// OptionalFeatures lists features a reader may ignore.
	OptionalFeatures []string

	WritingProgram string
	Source         string

	// Osmosis replication fields; nil when the writer did not record them.
	ReplicationTimestamp      *int64
	ReplicationSequenceNumber *int64
	ReplicationBaseURL        string
}

// StringTable is the block-scoped deduplicated table of byte strings
// referenced by integer index. Index 0 is conventionally an empty string,
// reserved as the keys_vals terminator in dense nodes.
type StringTable struct {
	S [][]byte
}

// PrimitiveBlock is the decoded "OSMData" block: one string table shared by
// an ordered sequence of primitive groups, plus the scaling constants that
// convert the block's compact integers to true coordinate and time units.
type PrimitiveBlock struct {
	StringTable StringTable
	Groups      []PrimitiveGroup

	// Granularity is the coordinate resolution in units of nanodegrees.
	Granularity int32

	// LatOffset and LonOffset are coordinate offsets in nanodegrees.
	LatOffset int64
	LonOffset int64

	// DateGranularity is the timestamp resolution in milliseconds.
	DateGranularity int32
}

// PrimitiveGroup holds one kind of element. Writers are required to put
// only one of the element arrays in a single group, but readers must not
// rely on it; all arrays are decoded independently.
type PrimitiveGroup struct {
	Nodes      []Node
	Dense      *DenseNodes
	Ways       []Way
	Relations  []Relation
	ChangeSets []ChangeSet
}

// Info is the optional metadata of a non-dense element.
//
// Fields are pointers because presence is meaningful: an absent column is
// not the same as a zero value.
type Info struct {
	Version   *int32
	Timestamp *int64
	Changeset *int64
	UID       *int32
	UserSid   *uint32
	Visible   *bool
}

// DenseInfo holds the metadata columns of a DenseNodes section. The
// timestamp, changeset, uid and user_sid columns are delta coded.
type DenseInfo struct {
	Version   []int32
	Timestamp []int64
	Changeset []int64
	UID       []int32
	UserSid   []int32
	Visible   []bool
}

// DenseNodes is the columnar, delta-coded encoding of many nodes via
// parallel arrays. ID, Lat and Lon must have equal lengths; KeysVals packs
// per-node runs of (key index, value index) pairs, each run terminated by
// a single 0.
type DenseNodes struct {
	ID        []int64
	DenseInfo *DenseInfo
	Lat       []int64
	Lon       []int64
	KeysVals  []int32
}

// Node is a single point element with raw (unnormalized) coordinates.
type Node struct {
	ID   int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Lat  int64
	Lon  int64
}

// Way is an ordered list of node references. Refs is delta coded. Lat and
// Lon are the optional delta-coded node locations written under the
// "LocationsOnWays" optional feature.
type Way struct {
	ID   int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Refs []int64
	Lat  []int64
	Lon  []int64
}

// MemberType identifies what element a relation member references.
type MemberType int32

const (
	MemberNode     MemberType = 0
	MemberWay      MemberType = 1
	MemberRelation MemberType = 2
)

func (t MemberType) String() string {
	switch t {
	case MemberNode:
		return "node"
	case MemberWay:
		return "way"
	case MemberRelation:
		return "relation"
	default:
		return "unknown"
	}
}

// Relation is an element grouping other elements. MemIDs is delta coded;
// RolesSid indexes the string table.
type Relation struct {
	ID       int64
	Keys     []uint32
	Vals     []uint32
	Info     *Info
	RolesSid []int32
	MemIDs   []int64
	Types    []MemberType
}

// ChangeSet is a changeset reference. The schema defines no further fields.
type ChangeSet struct {
	ID int64
}

// UnmarshalHeaderBlock decodes a HeaderBlock message.
func UnmarshalHeaderBlock(b []byte) (*HeaderBlock, error) {
	header := &HeaderBlock{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			bbox, err := unmarshalHeaderBBox(v)
			if err != nil {
				return nil, err
			}
			header.BBox = bbox
			b = b[n:]

		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.RequiredFeatures = append(header.RequiredFeatures, string(v))
			b = b[n:]

		case num == 5 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.OptionalFeatures = append(header.OptionalFeatures, string(v))
			b = b[n:]

		case num == 16 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.WritingProgram = string(v)
			b = b[n:]

		case num == 17 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.Source = string(v)
			b = b[n:]

		case num == 32 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			ts := int64(v) //nolint:gosec
			header.ReplicationTimestamp = &ts
			b = b[n:]

		case num == 33 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			seq := int64(v) //nolint:gosec
			header.ReplicationSequenceNumber = &seq
			b = b[n:]

		case num == 34 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.ReplicationBaseURL = string(v)
			b = b[n:]

		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return nil, err
			}
		}
	}

	return header, nil
}

func unmarshalHeaderBBox(b []byte) (*HeaderBBox, error) {
	bbox := &HeaderBBox{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		if typ == protowire.VarintType && num >= 1 && num <= 4 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			switch num {
			case 1:
				bbox.Left = asSint64(v)
			case 2:
				bbox.Right = asSint64(v)
			case 3:
				bbox.Top = asSint64(v)
			case 4:
				bbox.Bottom = asSint64(v)
			}
			b = b[n:]

			continue
		}

		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return nil, err
		}
	}

	return bbox, nil
}

// UnmarshalPrimitiveBlock decodes a PrimitiveBlock message.
//
// String table entries and dense-node arrays alias b; they stay valid only
// as long as the caller keeps b alive and unmodified.
func UnmarshalPrimitiveBlock(b []byte) (*PrimitiveBlock, error) {
	block := &PrimitiveBlock{
		Granularity:     DefaultGranularity,
		DateGranularity: DefaultDateGranularity,
	}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			if err := unmarshalStringTable(v, &block.StringTable); err != nil {
				return nil, err
			}
			b = b[n:]

		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			group, err := unmarshalPrimitiveGroup(v)
			if err != nil {
				return nil, err
			}
			block.Groups = append(block.Groups, *group)
			b = b[n:]

		case num == 17 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			block.Granularity = asInt32(v)
			b = b[n:]

		case num == 18 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			block.DateGranularity = asInt32(v)
			b = b[n:]

		case num == 19 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			block.LatOffset = int64(v) //nolint:gosec
			b = b[n:]

		case num == 20 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			block.LonOffset = int64(v) //nolint:gosec
			b = b[n:]

		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return nil, err
			}
		}
	}

	return block, nil
}

func unmarshalStringTable(b []byte, table *StringTable) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError(n)
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return wireError(n)
			}
			table.S = append(table.S, v)
			b = b[n:]

			continue
		}

		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return err
		}
	}

	return nil
}

func unmarshalPrimitiveGroup(b []byte) (*PrimitiveGroup, error) {
	group := &PrimitiveGroup{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType {
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return nil, err
			}

			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, wireError(n)
		}

		switch num {
		case 1:
			node, err := unmarshalNode(v)
			if err != nil {
				return nil, err
			}
			group.Nodes = append(group.Nodes, *node)

		case 2:
			dense, err := unmarshalDenseNodes(v)
			if err != nil {
				return nil, err
			}
			group.Dense = dense

		case 3:
			way, err := unmarshalWay(v)
			if err != nil {
				return nil, err
			}
			group.Ways = append(group.Ways, *way)

		case 4:
			rel, err := unmarshalRelation(v)
			if err != nil {
				return nil, err
			}
			group.Relations = append(group.Relations, *rel)

		case 5:
			cs, err := unmarshalChangeSet(v)
			if err != nil {
				return nil, err
			}
			group.ChangeSets = append(group.ChangeSets, *cs)

		default:
		}

		b = b[n:]
	}

	return group, nil
}

func unmarshalInfo(b []byte) (*Info, error) {
	info := &Info{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		if typ == protowire.VarintType && num >= 1 && num <= 6 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			switch num {
			case 1:
				version := asInt32(v)
				info.Version = &version
			case 2:
				ts := int64(v) //nolint:gosec
				info.Timestamp = &ts
			case 3:
				cs := int64(v) //nolint:gosec
				info.Changeset = &cs
			case 4:
				uid := asInt32(v)
				info.UID = &uid
			case 5:
				sid := asUint32(v)
				info.UserSid = &sid
			case 6:
				visible := asBool(v)
				info.Visible = &visible
			}
			b = b[n:]

			continue
		}

		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return nil, err
		}
	}

	return info, nil
}

func unmarshalDenseInfo(b []byte) (*DenseInfo, error) {
	info := &DenseInfo{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		var err error
		switch num {
		case 1:
			info.Version, b, err = appendVarints(info.Version, b, typ, asInt32)
		case 2:
			info.Timestamp, b, err = appendVarints(info.Timestamp, b, typ, asSint64)
		case 3:
			info.Changeset, b, err = appendVarints(info.Changeset, b, typ, asSint64)
		case 4:
			info.UID, b, err = appendVarints(info.UID, b, typ, asSint32)
		case 5:
			info.UserSid, b, err = appendVarints(info.UserSid, b, typ, asSint32)
		case 6:
			info.Visible, b, err = appendVarints(info.Visible, b, typ, asBool)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	return info, nil
}

func unmarshalDenseNodes(b []byte) (*DenseNodes, error) {
	dense := &DenseNodes{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		var err error
		switch num {
		case 1:
			dense.ID, b, err = appendVarints(dense.ID, b, typ, asSint64)
		case 5:
			if typ != protowire.BytesType {
				b, err = skipField(b, num, typ)
				break
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			dense.DenseInfo, err = unmarshalDenseInfo(v)
			b = b[n:]
		case 8:
			dense.Lat, b, err = appendVarints(dense.Lat, b, typ, asSint64)
		case 9:
			dense.Lon, b, err = appendVarints(dense.Lon, b, typ, asSint64)
		case 10:
			dense.KeysVals, b, err = appendVarints(dense.KeysVals, b, typ, asInt32)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	return dense, nil
}

func unmarshalNode(b []byte) (*Node, error) {
	node := &Node{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		var err error
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			node.ID = asSint64(v)
			b = b[n:]
		case num == 2:
			node.Keys, b, err = appendVarints(node.Keys, b, typ, asUint32)
		case num == 3:
			node.Vals, b, err = appendVarints(node.Vals, b, typ, asUint32)
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			node.Info, err = unmarshalInfo(v)
			b = b[n:]
		case num == 8 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			node.Lat = asSint64(v)
			b = b[n:]
		case num == 9 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			node.Lon = asSint64(v)
			b = b[n:]
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func unmarshalWay(b []byte) (*Way, error) {
	way := &Way{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		var err error
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			way.ID = int64(v) //nolint:gosec
			b = b[n:]
		case num == 2:
			way.Keys, b, err = appendVarints(way.Keys, b, typ, asUint32)
		case num == 3:
			way.Vals, b, err = appendVarints(way.Vals, b, typ, asUint32)
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			way.Info, err = unmarshalInfo(v)
			b = b[n:]
		case num == 8:
			way.Refs, b, err = appendVarints(way.Refs, b, typ, asSint64)
		case num == 9:
			way.Lat, b, err = appendVarints(way.Lat, b, typ, asSint64)
		case num == 10:
			way.Lon, b, err = appendVarints(way.Lon, b, typ, asSint64)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	return way, nil
}

func unmarshalRelation(b []byte) (*Relation, error) {
	rel := &Relation{}

	asMemberType := func(v uint64) MemberType { return MemberType(int32(v)) } //nolint:gosec

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		var err error
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			rel.ID = int64(v) //nolint:gosec
			b = b[n:]
		case num == 2:
			rel.Keys, b, err = appendVarints(rel.Keys, b, typ, asUint32)
		case num == 3:
			rel.Vals, b, err = appendVarints(rel.Vals, b, typ, asUint32)
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			rel.Info, err = unmarshalInfo(v)
			b = b[n:]
		case num == 8:
			rel.RolesSid, b, err = appendVarints(rel.RolesSid, b, typ, asInt32)
		case num == 9:
			rel.MemIDs, b, err = appendVarints(rel.MemIDs, b, typ, asSint64)
		case num == 10:
			rel.Types, b, err = appendVarints(rel.Types, b, typ, asMemberType)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, err
		}
	}

	return rel, nil
}

func unmarshalChangeSet(b []byte) (*ChangeSet, error) {
	cs := &ChangeSet{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			cs.ID = int64(v) //nolint:gosec
			b = b[n:]

			continue
		}

		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return nil, err
		}
	}

	return cs, nil
}
