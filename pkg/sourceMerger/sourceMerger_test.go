package sourceMerger

import (
	"strings"
	"testing"

	"github.com/MainbaseT/sol2uml/internal/logger"
	"github.com/MainbaseT/sol2uml/pkg/solidity"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const aSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

import "./B.sol";

contract A is B {
    function a() public pure returns (uint256) {
        return b() + 1;
    }
}
`

const bSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

contract B {
    function b() public pure returns (uint256) {
        return 1;
    }
}
`

const errorsSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

error Unauthorized(address caller);
`

func setup() (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{Debug: false})
}

func twoFileResult() *sourcecode.FetchResult {
	return &sourcecode.FetchResult{
		Files: []sourcecode.SourceFile{
			{Filename: "A.sol", Code: aSource},
			{Filename: "B.sol", Code: bSource},
		},
		ContractMetadata: sourcecode.ContractMetadata{
			ContractName:    "A",
			CompilerVersion: "v0.8.19+commit.7dd6d404",
		},
		Remappings: []sourcecode.Remapping{},
	}
}

func activeLines(code string, prefix string) int {
	count := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			count++
		}
	}
	return count
}

type fixedSorter struct {
	classes []*solidity.Class
}

func (f *fixedSorter) SortClasses(_ []*solidity.Class) []*solidity.Class {
	return f.classes
}

func Test_MergeSourceCode(t *testing.T) {
	l, err := setup()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Test two file project is merged dependency first", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		merged, err := sm.MergeSourceCode(twoFileResult())
		require.Nil(t, err)

		code := merged.SolidityCode
		assert.Equal(t, "A", merged.ContractName)
		assert.True(t, strings.HasPrefix(code, "pragma solidity =0.8.19;\n"))

		bIndex := strings.Index(code, "contract B {")
		aIndex := strings.Index(code, "contract A is B {")
		require.True(t, bIndex > 0)
		require.True(t, aIndex > 0)
		assert.Less(t, bIndex, aIndex)

		assert.Equal(t, 2, strings.Count(code, "/* pragma solidity ^0.8.0; */"))
		assert.Contains(t, code, `/* import "./B.sol"; */`)
	})
	t.Run("Test merged output invariants", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		merged, err := sm.MergeSourceCode(twoFileResult())
		require.Nil(t, err)

		code := merged.SolidityCode
		assert.Equal(t, 1, activeLines(code, "pragma solidity"))
		assert.Equal(t, 0, activeLines(code, "import"))
		assert.Equal(t, 0, strings.Count(code, "SPDX-License-Identifier"))
		assert.Equal(t, 2, strings.Count(code, "SPDX--License-Identifier"))
	})
	t.Run("Test merging twice is byte identical", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		first, err := sm.MergeSourceCode(twoFileResult())
		require.Nil(t, err)
		second, err := sm.MergeSourceCode(twoFileResult())
		require.Nil(t, err)

		assert.Equal(t, first.SolidityCode, second.SolidityCode)
	})
	t.Run("Test non dependent files come first and every file appears once", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		result := twoFileResult()
		result.Files = append(result.Files, sourcecode.SourceFile{Filename: "Errors.sol", Code: errorsSource})

		merged, err := sm.MergeSourceCode(result)
		require.Nil(t, err)

		code := merged.SolidityCode
		assert.Equal(t, 1, strings.Count(code, "error Unauthorized(address caller);"))
		assert.Equal(t, 1, strings.Count(code, "contract A is B {"))
		assert.Equal(t, 1, strings.Count(code, "contract B {"))
		assert.Less(t, strings.Index(code, "error Unauthorized"), strings.Index(code, "contract B {"))
	})
	t.Run("Test order of filenames", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		filenames, err := sm.OrderFilenames(twoFileResult())
		require.Nil(t, err)
		assert.Equal(t, []string{"B.sol", "A.sol"}, filenames)
	})
	t.Run("Test ordered file that was not fetched", func(t *testing.T) {
		sorter := &fixedSorter{classes: []*solidity.Class{
			{Name: "Ghost", RelativePath: "Ghost.sol"},
		}}
		sm := NewSourceMerger(nil, solidity.NewParser(), solidity.NewConverter(), sorter, solidity.ParseSolidityVersion, nil, l)

		merged, err := sm.MergeSourceCode(twoFileResult())
		assert.Nil(t, merged)
		assert.True(t, errors.Is(err, sourcecode.ErrMissingFileForOrdering))
		assert.Contains(t, err.Error(), "Ghost.sol")
		assert.Contains(t, err.Error(), "contract A")
	})
	t.Run("Test parse errors abort the merge", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		result := twoFileResult()
		result.Files = append(result.Files, sourcecode.SourceFile{Filename: "Broken.sol", Code: "contract Broken {"})

		_, err := sm.MergeSourceCode(result)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "Broken.sol", pe.Filename)
		assert.Equal(t, "contract Broken {", pe.Code)
		assert.Equal(t, "A", pe.ContractName)
		assert.Contains(t, err.Error(), "Broken.sol of contract A")
	})
	t.Run("Test tolerated parse errors merge the file as non dependent", func(t *testing.T) {
		parsed := make([]string, 0)
		sm := NewDefaultSourceMerger(&SourceMergerConfig{
			TolerateParseErrors: true,
			Progress: func(filename string) {
				parsed = append(parsed, filename)
			},
		}, nil, l)

		result := twoFileResult()
		result.Files = append(result.Files, sourcecode.SourceFile{Filename: "Broken.sol", Code: "contract Broken {"})

		merged, err := sm.MergeSourceCode(result)
		require.Nil(t, err)

		assert.Equal(t, []string{"A.sol", "B.sol", "Broken.sol"}, parsed)
		assert.Less(t, strings.Index(merged.SolidityCode, "contract Broken {"), strings.Index(merged.SolidityCode, "contract B {"))
	})
}

func Test_GetUmlClasses(t *testing.T) {
	l, err := setup()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Test classes in fetch order", func(t *testing.T) {
		sm := NewDefaultSourceMerger(nil, nil, l)

		umlClasses, err := sm.GetUmlClasses(twoFileResult())
		require.Nil(t, err)

		assert.Equal(t, "A", umlClasses.ContractName)
		require.Len(t, umlClasses.Classes, 2)
		assert.Equal(t, "A", umlClasses.Classes[0].Name)
		assert.Equal(t, []string{"B"}, umlClasses.Classes[0].Bases)
		assert.Equal(t, "B.sol", umlClasses.Classes[0].Imports[0].ResolvedPath)
		assert.Equal(t, "B", umlClasses.Classes[1].Name)
	})
}
