package usecase

var (
	CreateOrUpdateBigQueryTableForTest = createOrUpdateBigQueryTable
	RelativePathForTest                = relativePath
)
