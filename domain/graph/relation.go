package graph

import "fmt"

// Direction is the traversal direction of a relationship, seen from the parent node.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "out"
	case Incoming:
		return "in"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Relation describes one relationship field: which edge type to follow, in which
// direction, and which label the reached nodes must carry.
type Relation struct {
	Type      RelType
	Direction Direction
	Target    Label
}

// Validate checks every identifier of the relation against the allow-lists.
func (r Relation) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown relationship type %q", r.Type)
	}
	if !r.Target.Valid() {
		return fmt.Errorf("unknown target label %q", r.Target)
	}
	if r.Direction < Outgoing || r.Direction > Both {
		return fmt.Errorf("invalid direction %d", r.Direction)
	}
	return nil
}

func (r Relation) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Type, r.Direction, r.Target)
}

// RelationKey identifies one relationship load: the parent node plus the relation.
type RelationKey struct {
	ParentID int64
	Relation Relation
}

// Relationship fields of the schema, one per parent type and field.
var (
	GroupHasAccess = Relation{RelHasAccess, Outgoing, LabelCategory}
	GroupUsers     = Relation{RelInGroup, Incoming, LabelUser}

	UserInGroup        = Relation{RelInGroup, Outgoing, LabelGroup}
	UserIsGlobalUser   = Relation{RelIsGlobalUser, Outgoing, LabelGlobalUser}
	UserCreated        = Relation{RelCreated, Outgoing, LabelPost}
	UserTalkedTo       = Relation{RelTalkedTo, Outgoing, LabelUser}
	UserTalkedOrQuoted = Relation{RelTalkedOrQuoted, Outgoing, LabelUser}
	UserLikes          = Relation{RelLikes, Outgoing, LabelPost}
	UserUsedCode       = Relation{RelUsedCode, Outgoing, LabelCode}

	GlobalUserHasAccountOn = Relation{RelHasAccountOn, Outgoing, LabelPlatform}
	GlobalUserUsers        = Relation{RelIsGlobalUser, Incoming, LabelUser}

	TagTopics = Relation{RelTaggedWith, Incoming, LabelTopic}
	TagCodes  = Relation{RelCorpus, Outgoing, LabelCode}

	CategoryParentCategoryOf = Relation{RelParentCategoryOf, Outgoing, LabelCategory}
	CategoryGroups           = Relation{RelHasAccess, Incoming, LabelGroup}
	CategoryTopics           = Relation{RelInCategory, Incoming, LabelTopic}

	TopicInCategory = Relation{RelInCategory, Outgoing, LabelCategory}
	TopicTaggedWith = Relation{RelTaggedWith, Outgoing, LabelTag}
	TopicUsers      = Relation{RelCreated, Incoming, LabelUser}
	TopicPosts      = Relation{RelInTopic, Incoming, LabelPost}

	PostInTopic           = Relation{RelInTopic, Outgoing, LabelTopic}
	PostIsReplyTo         = Relation{RelIsReplyTo, Outgoing, LabelPost}
	PostContainsQuoteFrom = Relation{RelContainsQuoteFrom, Outgoing, LabelPost}
	PostUsers             = Relation{RelCreated, Incoming, LabelUser}
	PostAnnotations       = Relation{RelAnnotates, Incoming, LabelAnnotation}

	LanguageCodeNames = Relation{RelInLanguage, Incoming, LabelCodeName}

	CodeOnPlatform    = Relation{RelOnPlatform, Outgoing, LabelPlatform}
	CodeHasParentCode = Relation{RelHasParentCode, Outgoing, LabelCode}
	CodeHasCodeName   = Relation{RelHasCodeName, Outgoing, LabelCodeName}
	CodeCooccurs      = Relation{RelCooccurs, Both, LabelCode}
	CodeAnnotations   = Relation{RelRefersTo, Incoming, LabelAnnotation}
	CodeUsers         = Relation{RelUsedCode, Incoming, LabelUser}

	CodeNameInLanguage = Relation{RelInLanguage, Outgoing, LabelLanguage}
	CodeNameCodes      = Relation{RelHasCodeName, Incoming, LabelCode}

	AnnotationRefersTo  = Relation{RelRefersTo, Outgoing, LabelCode}
	AnnotationAnnotates = Relation{RelAnnotates, Outgoing, LabelPost}

	PlatformCodes       = Relation{RelOnPlatform, Incoming, LabelCode}
	PlatformGlobalUsers = Relation{RelHasAccountOn, Incoming, LabelGlobalUser}
)
