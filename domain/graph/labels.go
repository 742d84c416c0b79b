package graph

// Label is a node label of the forum graph. Labels are schema-level identifiers:
// Cypher cannot bind them as parameters, so only labels on the allow-list may be
// rendered into query text.
type Label string

const (
	LabelPlatform   Label = "platform"
	LabelTag        Label = "tag"
	LabelCorpusTag  Label = "corpus_tag"
	LabelUser       Label = "user"
	LabelGlobalUser Label = "globaluser"
	LabelGroup      Label = "group"
	LabelCategory   Label = "category"
	LabelTopic      Label = "topic"
	LabelPost       Label = "post"
	LabelLanguage   Label = "language"
	LabelCode       Label = "code"
	LabelCodeName   Label = "codename"
	LabelAnnotation Label = "annotation"
)

var knownLabels = map[Label]struct{}{
	LabelPlatform:   {},
	LabelTag:        {},
	LabelCorpusTag:  {},
	LabelUser:       {},
	LabelGlobalUser: {},
	LabelGroup:      {},
	LabelCategory:   {},
	LabelTopic:      {},
	LabelPost:       {},
	LabelLanguage:   {},
	LabelCode:       {},
	LabelCodeName:   {},
	LabelAnnotation: {},
}

// Valid reports whether the label is on the allow-list.
func (l Label) Valid() bool {
	_, ok := knownLabels[l]
	return ok
}

func (l Label) String() string {
	return string(l)
}

// PropertyKey is a node property name usable in a match pattern.
type PropertyKey string

const (
	PropDiscourseID      PropertyKey = "discourse_id"
	PropPlatform         PropertyKey = "platform"
	PropName             PropertyKey = "name"
	PropURL              PropertyKey = "url"
	PropUsername         PropertyKey = "username"
	PropEmail            PropertyKey = "email"
	PropTitle            PropertyKey = "title"
	PropTopicID          PropertyKey = "topic_id"
	PropUserID           PropertyKey = "user_id"
	PropPostID           PropertyKey = "post_id"
	PropCodeID           PropertyKey = "code_id"
	PropCategoryID       PropertyKey = "category_id"
	PropCreatorID        PropertyKey = "creator_id"
	PropLanguageID       PropertyKey = "language_id"
	PropLocale           PropertyKey = "locale"
	PropNameLower        PropertyKey = "name_lower"
	PropParentCategoryID PropertyKey = "parent_category_id"
	PropTag              PropertyKey = "tag"
)

var knownPropertyKeys = map[PropertyKey]struct{}{
	PropDiscourseID:      {},
	PropPlatform:         {},
	PropName:             {},
	PropURL:              {},
	PropUsername:         {},
	PropEmail:            {},
	PropTitle:            {},
	PropTopicID:          {},
	PropUserID:           {},
	PropPostID:           {},
	PropCodeID:           {},
	PropCategoryID:       {},
	PropCreatorID:        {},
	PropLanguageID:       {},
	PropLocale:           {},
	PropNameLower:        {},
	PropParentCategoryID: {},
	PropTag:              {},
}

// Valid reports whether the key is on the allow-list.
func (k PropertyKey) Valid() bool {
	_, ok := knownPropertyKeys[k]
	return ok
}

func (k PropertyKey) String() string {
	return string(k)
}

// RelType is a relationship type of the forum graph.
type RelType string

const (
	RelOnPlatform        RelType = "ON_PLATFORM"
	RelInGroup           RelType = "IN_GROUP"
	RelHasAccess         RelType = "HAS_ACCESS"
	RelIsGlobalUser      RelType = "IS_GLOBAL_USER"
	RelHasAccountOn      RelType = "HAS_ACCOUNT_ON"
	RelCreated           RelType = "CREATED"
	RelTalkedTo          RelType = "TALKED_TO"
	RelTalkedOrQuoted    RelType = "TALKED_OR_QUOTED"
	RelLikes             RelType = "LIKES"
	RelUsedCode          RelType = "USED_CODE"
	RelTaggedWith        RelType = "TAGGED_WITH"
	RelParentCategoryOf  RelType = "PARENT_CATEGORY_OF"
	RelInCategory        RelType = "IN_CATEGORY"
	RelInTopic           RelType = "IN_TOPIC"
	RelIsReplyTo         RelType = "IS_REPLY_TO"
	RelContainsQuoteFrom RelType = "CONTAINS_QUOTE_FROM"
	RelAnnotates         RelType = "ANNOTATES"
	RelRefersTo          RelType = "REFERS_TO"
	RelInLanguage        RelType = "IN_LANGUAGE"
	RelHasParentCode     RelType = "HAS_PARENT_CODE"
	RelHasCodeName       RelType = "HAS_CODENAME"
	RelCooccurs          RelType = "COOCCURS"

	// RelCorpus is not stored. It names the derived path from a tag to the codes
	// referenced by annotations on posts in topics tagged with it.
	RelCorpus RelType = "CORPUS"
)

var knownRelTypes = map[RelType]struct{}{
	RelOnPlatform:        {},
	RelInGroup:           {},
	RelHasAccess:         {},
	RelIsGlobalUser:      {},
	RelHasAccountOn:      {},
	RelCreated:           {},
	RelTalkedTo:          {},
	RelTalkedOrQuoted:    {},
	RelLikes:             {},
	RelUsedCode:          {},
	RelTaggedWith:        {},
	RelParentCategoryOf:  {},
	RelInCategory:        {},
	RelInTopic:           {},
	RelIsReplyTo:         {},
	RelContainsQuoteFrom: {},
	RelAnnotates:         {},
	RelRefersTo:          {},
	RelInLanguage:        {},
	RelHasParentCode:     {},
	RelHasCodeName:       {},
	RelCooccurs:          {},
	RelCorpus:            {},
}

// Valid reports whether the relationship type is on the allow-list.
func (r RelType) Valid() bool {
	_, ok := knownRelTypes[r]
	return ok
}

func (r RelType) String() string {
	return string(r)
}
