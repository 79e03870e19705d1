package knowledge

import "github.com/taxwise-in/taxwise/internal/model"

// collectionAliases redirects topics whose dedicated collection never
// existed. Retirement content lives in the general knowledge corpus.
var collectionAliases = map[model.Topic]string{
	model.TopicRetirementPlanning: string(model.TopicFinancialKnowledge),
}

// CollectionFor resolves a query topic to the backing collection name.
func CollectionFor(topic model.Topic) string {
	if alias, ok := collectionAliases[topic]; ok {
		return alias
	}
	return string(topic)
}
